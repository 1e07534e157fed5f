package overlay

import "fmt"

// submitBatches issues one draw call per drawable batch, in insertion
// order. The start vertex advances past every batch, drawn or not, so it
// stays aligned with the uploaded vertex buffer.
func submitBatches(dev Device, batches []Batch) error {
	start := 0
	for _, b := range batches {
		if prims := b.Topology.PrimitiveCount(b.Count); prims > 0 {
			if err := dev.SubmitDraw(b.Topology, b.Texture, start, prims); err != nil {
				return fmt.Errorf("overlay: draw %s batch at vertex %d: %w", b.Topology, start, err)
			}
		}
		start += b.Count
	}
	return nil
}
