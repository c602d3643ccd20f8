package wink

// ConstrainedStride is the frame stride used in constrained contexts.
const ConstrainedStride = 2

// ShouldProcess reports whether the frame at frameIndex is forwarded to the
// landmark source. It depends only on the index, never on earlier decisions.
func ShouldProcess(frameIndex int, rc RuntimeContext) bool {
	if !rc.Constrained {
		return true
	}
	return frameIndex%ConstrainedStride == 0
}

// FrameGate counts capture callbacks and throttles which of them are processed.
// The zero value starts at frame 0.
type FrameGate struct {
	counter int
}

// Next decides whether the current frame is processed and then advances the
// counter, so frame 0 is always processed.
func (g *FrameGate) Next(rc RuntimeContext) (frameIndex int, process bool) {
	frameIndex = g.counter
	process = ShouldProcess(frameIndex, rc)
	g.counter++
	return frameIndex, process
}

// Count returns the number of frames seen so far.
func (g *FrameGate) Count() int {
	return g.counter
}
