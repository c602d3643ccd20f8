package wink

// Eye identifies which eye is closed during a wink.
type Eye string

const (
	EyeNone  Eye = ""
	EyeLeft  Eye = "left"
	EyeRight Eye = "right"
)

// Classification is the raw, undebounced result for one frame.
type Classification struct {
	LeftClosed  bool `json:"left_closed"`
	RightClosed bool `json:"right_closed"`
	Winking     bool `json:"winking"`
	Eye         Eye  `json:"eye,omitempty"`
}

// ClassifyFrame reports whether exactly one eye is below the threshold.
// Both closed is a blink and both open is nothing; neither is a wink.
func ClassifyFrame(leftEAR, rightEAR, threshold float64) bool {
	return (leftEAR < threshold) != (rightEAR < threshold)
}

// ClassifyEyes is ClassifyFrame with the per-eye flags kept.
func ClassifyEyes(leftEAR, rightEAR, threshold float64) Classification {
	c := Classification{
		LeftClosed:  leftEAR < threshold,
		RightClosed: rightEAR < threshold,
	}
	c.Winking = c.LeftClosed != c.RightClosed

	switch {
	case c.Winking && c.LeftClosed:
		c.Eye = EyeLeft
	case c.Winking && c.RightClosed:
		c.Eye = EyeRight
	}
	return c
}
