package overlay

// Default configuration values.
const (
	DefaultMaxVertices      = 4096
	DefaultInitialAtlasSize = 128
	DefaultMinTextScale     = 0.05
	DefaultMaxScaleRetries  = 64
	DefaultMaxAtlasSize     = 1 << 15
	DefaultExtentCacheSize  = 256
)

type config struct {
	maxVertices     int
	atlas           atlasConfig
	extentCacheSize int
}

func defaultConfig() config {
	return config{
		maxVertices: DefaultMaxVertices,
		atlas: atlasConfig{
			initialSize: DefaultInitialAtlasSize,
			maxSize:     DefaultMaxAtlasSize,
			minScale:    DefaultMinTextScale,
			maxRetries:  DefaultMaxScaleRetries,
		},
		extentCacheSize: DefaultExtentCacheSize,
	}
}

// Option configures a Renderer.
type Option func(*config)

// WithMaxVertices sets the initial vertex buffer capacity. The buffer
// still grows when a flush needs more.
func WithMaxVertices(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxVertices = n
		}
	}
}

// WithInitialAtlasSize sets the first atlas side tried when packing a font.
func WithInitialAtlasSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.atlas.initialSize = n
		}
	}
}

// WithMaxAtlasSize bounds atlas doubling. Fonts that would need a larger
// atlas fail with ErrAtlasTooLarge.
func WithMaxAtlasSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.atlas.maxSize = n
		}
	}
}

// WithMinTextScale sets the smallest text scale tried before font creation
// fails with ErrScaleExhausted.
func WithMinTextScale(s float32) Option {
	return func(c *config) { c.atlas.minScale = s }
}

// WithMaxScaleRetries limits how many times the text scale is reduced.
func WithMaxScaleRetries(n int) Option {
	return func(c *config) { c.atlas.maxRetries = n }
}

// WithExtentCacheSize sets how many measured strings each font remembers.
// Zero disables the cache.
func WithExtentCacheSize(n int) Option {
	return func(c *config) { c.extentCacheSize = max(n, 0) }
}
