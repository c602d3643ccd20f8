package wink

// HoldFrames is the number of consecutive processed wink frames needed to confirm.
const HoldFrames = 2

// TrackerState is the externally visible debounce state.
type TrackerState int

const (
	StateIdle TrackerState = iota
	StateConfirmed
)

// String returns "idle" or "confirmed".
func (s TrackerState) String() string {
	if s == StateConfirmed {
		return "confirmed"
	}
	return "idle"
}

// Transition records the tracker state before and after one update.
type Transition struct {
	From TrackerState
	To   TrackerState
}

// Changed reports whether the update moved the tracker to a different state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Confirmed reports whether the update confirmed a wink.
func (t Transition) Confirmed() bool {
	return t.From == StateIdle && t.To == StateConfirmed
}

// Cancelled reports whether the update dropped a confirmed wink.
func (t Transition) Cancelled() bool {
	return t.From == StateConfirmed && t.To == StateIdle
}

// DebounceTracker turns the raw per-frame wink signal into a confirmed state.
// It needs Hold consecutive positive frames to confirm, and a single negative
// frame cancels. The zero value uses HoldFrames.
//
// DebounceTracker is a plain value; copying it copies its state.
type DebounceTracker struct {
	Hold                  int `json:"hold"`
	ConsecutiveWinkFrames int `json:"consecutive_wink_frames"`
}

// NewDebounceTracker creates a tracker requiring hold consecutive frames.
// Values less than or equal to 0 use HoldFrames.
func NewDebounceTracker(hold int) DebounceTracker {
	if hold <= 0 {
		hold = HoldFrames
	}
	return DebounceTracker{Hold: hold}
}

// Update applies one processed frame's raw signal.
func (d *DebounceTracker) Update(raw bool) Transition {
	from := d.State()
	if raw {
		d.ConsecutiveWinkFrames++
	} else {
		d.ConsecutiveWinkFrames = 0
	}
	return Transition{From: from, To: d.State()}
}

// State returns StateConfirmed once the hold is reached.
func (d DebounceTracker) State() TrackerState {
	hold := d.Hold
	if hold <= 0 {
		hold = HoldFrames
	}
	if d.ConsecutiveWinkFrames >= hold {
		return StateConfirmed
	}
	return StateIdle
}

// Reset clears the consecutive frame count.
func (d *DebounceTracker) Reset() {
	d.ConsecutiveWinkFrames = 0
}
