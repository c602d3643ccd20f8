package wink

// Status is the per-frame status reported to the UI layer.
type Status string

const (
	StatusNoFace        Status = "NO_FACE"
	StatusSearching     Status = "SEARCHING"
	StatusWinkConfirmed Status = "WINK_CONFIRMED"
)

// UI labels.
const (
	BadgeNoFace    = "No face detected"
	BadgeSearching = "Looking for wink..."
	BadgeConfirmed = "WINK DETECTED!"

	MoodHappy    = "She is Happy! ❤️"
	MoodNotHappy = "She's not Happy"
)

// Badge returns the status badge text.
func (s Status) Badge() string {
	switch s {
	case StatusNoFace:
		return BadgeNoFace
	case StatusWinkConfirmed:
		return BadgeConfirmed
	default:
		return BadgeSearching
	}
}

// statusFor maps a face-present tracker state to a status.
func statusFor(state TrackerState) Status {
	if state == StateConfirmed {
		return StatusWinkConfirmed
	}
	return StatusSearching
}

// moodFor follows the tracker, so a no-face frame keeps the previous mood.
func moodFor(state TrackerState) string {
	if state == StateConfirmed {
		return MoodHappy
	}
	return MoodNotHappy
}
