package wink

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ayusman/nayana/internal/face"
)

// Params are the per-session constants, resolved once at startup.
type Params struct {
	Context    RuntimeContext
	Threshold  float64
	HoldFrames int
	LeftEye    face.EyeIndices
	RightEye   face.EyeIndices
}

// NewParams resolves the active threshold for rc and fills in the defaults.
func NewParams(rc RuntimeContext, t Thresholds) Params {
	return Params{
		Context:    rc,
		Threshold:  t.Active(rc),
		HoldFrames: HoldFrames,
		LeftEye:    face.LeftEye,
		RightEye:   face.RightEye,
	}
}

// Validate checks the threshold and hold are usable.
func (p Params) Validate() error {
	if p.Threshold <= 0 || p.Threshold >= 1 {
		return fmt.Errorf("%w: threshold %v outside (0,1)", ErrInvalidThresholds, p.Threshold)
	}
	if p.HoldFrames <= 0 {
		return fmt.Errorf("hold frames must be positive, got %d", p.HoldFrames)
	}
	return nil
}

// State is what a session carries from one processed frame to the next.
type State struct {
	Debounce DebounceTracker `json:"debounce"`
}

// FrameInput is one processed frame's landmark result.
type FrameInput struct {
	FrameIndex int
	Width      int
	Height     int
	// Faces from the landmark source; only the first is used.
	Faces []face.LandmarkSet
}

// Output is the per-frame result handed to the UI layer.
type Output struct {
	SessionID      string         `json:"session_id"`
	FrameIndex     int            `json:"frame_index"`
	LeftEAR        float64        `json:"left_ear"`
	RightEAR       float64        `json:"right_ear"`
	Threshold      float64        `json:"threshold"`
	Status         Status         `json:"status"`
	Badge          string         `json:"badge"`
	Mood           string         `json:"mood"`
	Classification Classification `json:"classification"`
	// Inconclusive is set when an eye's geometry was degenerate.
	Inconclusive bool       `json:"inconclusive"`
	Transition   Transition `json:"-"`
}

// Step advances the session state by one processed frame. It is pure:
// st is taken by value and the updated copy is returned.
//
// No-face frames bypass classification and leave the debounce count
// untouched. Frames with degenerate eye geometry are inconclusive and also
// leave it untouched.
func Step(p Params, st State, in FrameInput) (State, Output) {
	if st.Debounce.Hold <= 0 {
		st.Debounce.Hold = p.HoldFrames
	}

	out := Output{
		FrameIndex: in.FrameIndex,
		Threshold:  p.Threshold,
	}

	if len(in.Faces) == 0 {
		out.Status = StatusNoFace
		return st, finish(out, st)
	}

	set := in.Faces[0]
	convert := PixelSpace(in.Width, in.Height)

	left, leftErr := EyeEAR(set, p.LeftEye, convert)
	right, rightErr := EyeEAR(set, p.RightEye, convert)
	out.LeftEAR, out.RightEAR = left, right

	if leftErr != nil || rightErr != nil {
		out.Inconclusive = true
		out.Status = statusFor(st.Debounce.State())
		return st, finish(out, st)
	}

	out.Classification = ClassifyEyes(left, right, p.Threshold)
	out.Transition = st.Debounce.Update(out.Classification.Winking)
	out.Status = statusFor(st.Debounce.State())

	return st, finish(out, st)
}

func finish(out Output, st State) Output {
	state := st.Debounce.State()
	if out.Transition == (Transition{}) {
		out.Transition = Transition{From: state, To: state}
	}
	out.Badge = out.Status.Badge()
	out.Mood = moodFor(state)
	return out
}

// Session owns the mutable per-session state: the frame counter and the
// debounce tracker. It is not safe for concurrent use; drive it from a single
// frame loop.
type Session struct {
	id     string
	params Params
	gate   FrameGate
	state  State
	last   Output
}

// NewSession creates a session with a fresh ID and zeroed counters.
func NewSession(p Params) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:     uuid.New().String(),
		params: p,
		state:  State{Debounce: NewDebounceTracker(p.HoldFrames)},
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Params returns the session constants.
func (s *Session) Params() Params {
	return s.params
}

// Admit runs the frame gate for the next capture callback.
// It must be called exactly once per captured frame.
func (s *Session) Admit() (frameIndex int, process bool) {
	return s.gate.Next(s.params.Context)
}

// FramesSeen returns the number of capture callbacks admitted so far.
func (s *Session) FramesSeen() int {
	return s.gate.Count()
}

// Process applies one processed frame and returns its output.
func (s *Session) Process(in FrameInput) Output {
	var out Output
	s.state, out = Step(s.params, s.state, in)
	out.SessionID = s.id
	s.last = out
	return out
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state
}

// Last returns the most recent output.
func (s *Session) Last() Output {
	return s.last
}
