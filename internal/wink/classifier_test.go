package wink

import "testing"

func TestClassifyFrame_TruthTable(t *testing.T) {
	const threshold = 0.24

	tests := []struct {
		name      string
		left      float64
		right     float64
		want      bool
		wantEye   Eye
		leftShut  bool
		rightShut bool
	}{
		{name: "both open", left: 0.30, right: 0.31, want: false, wantEye: EyeNone},
		{name: "left closed", left: 0.05, right: 0.30, want: true, wantEye: EyeLeft, leftShut: true},
		{name: "right closed", left: 0.30, right: 0.05, want: true, wantEye: EyeRight, rightShut: true},
		{name: "both closed is a blink", left: 0.05, right: 0.04, want: false, wantEye: EyeNone, leftShut: true, rightShut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFrame(tt.left, tt.right, threshold); got != tt.want {
				t.Errorf("ClassifyFrame() = %v, want %v", got, tt.want)
			}

			c := ClassifyEyes(tt.left, tt.right, threshold)
			if c.Winking != tt.want {
				t.Errorf("Winking = %v, want %v", c.Winking, tt.want)
			}
			if c.Eye != tt.wantEye {
				t.Errorf("Eye = %q, want %q", c.Eye, tt.wantEye)
			}
			if c.LeftClosed != tt.leftShut || c.RightClosed != tt.rightShut {
				t.Errorf("closed = (%v, %v), want (%v, %v)", c.LeftClosed, c.RightClosed, tt.leftShut, tt.rightShut)
			}
		})
	}
}

func TestClassifyFrame_ThresholdIsStrict(t *testing.T) {
	// An EAR equal to the threshold counts as open.
	if ClassifyFrame(0.24, 0.30, 0.24) {
		t.Error("EAR equal to threshold should not count as closed")
	}
	if !ClassifyFrame(0.2399, 0.30, 0.24) {
		t.Error("EAR just below threshold should count as closed")
	}
}

func TestClassifyFrame_EndToEndBlink(t *testing.T) {
	left, err := ComputeEAR(eyeFromGaps(1.0, 0.18, 0.16), Identity)
	if err != nil {
		t.Fatalf("left: unexpected error: %v", err)
	}
	right, err := ComputeEAR(eyeFromGaps(1.0, 0.01, 0.01), Identity)
	if err != nil {
		t.Fatalf("right: unexpected error: %v", err)
	}

	c := ClassifyEyes(left, right, 0.24)
	if !c.LeftClosed {
		t.Errorf("left EAR %f should be closed under 0.24", left)
	}
	if !c.RightClosed {
		t.Errorf("right EAR %f should be closed under 0.24", right)
	}
	if c.Winking || ClassifyFrame(left, right, 0.24) {
		t.Error("symmetric closure must not be a wink")
	}
}
