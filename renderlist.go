package overlay

import (
	"math"
	"sync"
)

// renderListPool reuses RenderList buffers between frames.
var renderListPool = sync.Pool{
	New: func() any {
		return newRenderList(1024)
	},
}

// AcquireRenderList gets an empty RenderList from the pool.
// Call ReleaseRenderList when done to return it.
func AcquireRenderList() *RenderList {
	rl := renderListPool.Get().(*RenderList)
	rl.Clear()
	return rl
}

// ReleaseRenderList returns a RenderList to the pool for reuse.
func ReleaseRenderList(rl *RenderList) {
	if rl != nil {
		renderListPool.Put(rl)
	}
}

// Batch is a run of vertices drawn with one call.
type Batch struct {
	Count    int
	Topology Topology
	Texture  Texture // nil for untextured geometry
}

// RenderList accumulates vertices and the batches that partition them.
// The sum of all batch counts always equals len(Vertices).
//
// A RenderList is not safe for concurrent use.
type RenderList struct {
	Vertices []Vertex
	Batches  []Batch
}

func newRenderList(capacity int) *RenderList {
	return &RenderList{
		Vertices: make([]Vertex, 0, capacity),
		Batches:  make([]Batch, 0, 16),
	}
}

// Clear empties the list. Allocated capacity is retained.
func (rl *RenderList) Clear() {
	rl.Vertices = rl.Vertices[:0]
	rl.Batches = rl.Batches[:0]
}

// Len returns the number of vertices in the list.
func (rl *RenderList) Len() int {
	return len(rl.Vertices)
}

// batchedCount returns the sum of the batch counts.
func (rl *RenderList) batchedCount() int {
	n := 0
	for i := range rl.Batches {
		n += rl.Batches[i].Count
	}
	return n
}

// Append adds a run of vertices. The run joins the last batch when that
// batch has the same topology and texture; otherwise a new batch starts.
// Strip and fan runs are followed by an empty sentinel batch so the next
// run never extends them.
func (rl *RenderList) Append(verts []Vertex, topology Topology, tex Texture) {
	if len(verts) == 0 {
		return
	}

	n := len(rl.Batches)
	if n == 0 || rl.Batches[n-1].Topology != topology || rl.Batches[n-1].Texture != tex {
		rl.Batches = append(rl.Batches, Batch{Topology: topology, Texture: tex})
		n++
	}
	rl.Batches[n-1].Count += len(verts)
	rl.Vertices = append(rl.Vertices, verts...)

	if topology.IsStrip() {
		rl.Batches = append(rl.Batches, Batch{Topology: TopologyNone})
	}
}

// FilledRect draws a solid rectangle. rect is {X, Y, Z: width, W: height}.
func (rl *RenderList) FilledRect(rect Vec4, c Color) {
	x2, y2 := rect.X+rect.Z, rect.Y+rect.W
	v := [6]Vertex{
		V2(rect.X, rect.Y, c),
		V2(x2, rect.Y, c),
		V2(rect.X, y2, c),

		V2(x2, rect.Y, c),
		V2(x2, y2, c),
		V2(rect.X, y2, c),
	}
	rl.Append(v[:], TopologyTriangleList, nil)
}

// Rect draws the border of rect with the given stroke width.
func (rl *RenderList) Rect(rect Vec4, stroke float32, c Color) {
	rl.FilledRect(Vec4{rect.X, rect.Y, rect.Z, stroke}, c)
	rl.FilledRect(Vec4{rect.X, rect.Y + rect.W - stroke, rect.Z, stroke}, c)
	rl.FilledRect(Vec4{rect.X, rect.Y, stroke, rect.W}, c)
	rl.FilledRect(Vec4{rect.X + rect.Z - stroke, rect.Y, stroke, rect.W}, c)
}

// OutlinedRect fills rect and draws its border on top.
func (rl *RenderList) OutlinedRect(rect Vec4, stroke float32, outline, fill Color) {
	rl.FilledRect(rect, fill)
	rl.Rect(rect, stroke, outline)
}

// Line draws a one pixel line segment.
func (rl *RenderList) Line(from, to Vec2, c Color) {
	v := [2]Vertex{
		V2(from.X, from.Y, c),
		V2(to.X, to.Y, c),
	}
	rl.Append(v[:], TopologyLineList, nil)
}

const circleSegments = 24

// Circle draws a circle outline as a closed line strip.
func (rl *RenderList) Circle(center Vec2, radius float32, c Color) {
	var v [circleSegments + 1]Vertex
	for i := range v {
		theta := 2 * math.Pi * float64(i) / circleSegments
		v[i] = V2(
			center.X+radius*float32(math.Cos(theta)),
			center.Y+radius*float32(math.Sin(theta)),
			c,
		)
	}
	rl.Append(v[:], TopologyLineStrip, nil)
}

// Pixel fills the single pixel at pos.
func (rl *RenderList) Pixel(pos Vec2, c Color) {
	rl.FilledRect(Vec4{pos.X, pos.Y, 1, 1}, c)
}

// Pixels fills a square of side square centered on pos.
func (rl *RenderList) Pixels(pos Vec2, square float32, c Color) {
	rl.FilledRect(Vec4{pos.X - 0.5*square, pos.Y - 0.5*square, square, square}, c)
}
