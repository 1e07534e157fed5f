package overlay

// Topology is the primitive assembly mode for a run of vertices.
type Topology uint8

const (
	// TopologyNone marks sentinel batches. It has order 0 and is never drawn.
	TopologyNone Topology = iota
	TopologyPointList
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
	TopologyTriangleFan
)

var topologyNames = [...]string{
	TopologyNone:          "none",
	TopologyPointList:     "point-list",
	TopologyLineList:      "line-list",
	TopologyLineStrip:     "line-strip",
	TopologyTriangleList:  "triangle-list",
	TopologyTriangleStrip: "triangle-strip",
	TopologyTriangleFan:   "triangle-fan",
}

func (t Topology) String() string {
	if int(t) < len(topologyNames) {
		return topologyNames[t]
	}
	return "unknown"
}

// Order returns the number of vertices in one primitive, or 0 for
// unknown topologies.
func (t Topology) Order() int {
	switch t {
	case TopologyPointList:
		return 1
	case TopologyLineList, TopologyLineStrip:
		return 2
	case TopologyTriangleList, TopologyTriangleStrip, TopologyTriangleFan:
		return 3
	default:
		return 0
	}
}

// IsList reports whether each primitive uses its own vertices.
func (t Topology) IsList() bool {
	return t == TopologyPointList || t == TopologyLineList || t == TopologyTriangleList
}

// IsStrip reports whether consecutive primitives share vertices.
// Runs of these topologies are never merged with each other.
func (t Topology) IsStrip() bool {
	return t == TopologyLineStrip || t == TopologyTriangleStrip || t == TopologyTriangleFan
}

// PrimitiveCount converts a vertex count into a primitive count.
// It returns 0 when count does not form a single primitive.
func (t Topology) PrimitiveCount(count int) int {
	order := t.Order()
	if order == 0 || count <= 0 {
		return 0
	}
	if t.IsList() {
		return count / order
	}
	return max(count-(order-1), 0)
}
