package face

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestLandmarkSet_Eye(t *testing.T) {
	t.Run("returns points in index order", func(t *testing.T) {
		set := make(LandmarkSet, NumLandmarks)
		for i := range set {
			set[i] = Point2D{X: float64(i), Y: -float64(i)}
		}

		eye, err := set.Eye(LeftEye)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i, n := range LeftEye {
			if eye[i].X != float64(n) {
				t.Errorf("point %d: expected X %d, got %f", i, n, eye[i].X)
			}
		}
	})

	t.Run("short set returns ErrLandmarkIndex", func(t *testing.T) {
		set := make(LandmarkSet, 100)

		_, err := set.Eye(RightEye)
		if !errors.Is(err, ErrLandmarkIndex) {
			t.Errorf("expected ErrLandmarkIndex, got %v", err)
		}
	})

	t.Run("nil set returns ErrLandmarkIndex", func(t *testing.T) {
		var set LandmarkSet

		if _, err := set.Eye(LeftEye); !errors.Is(err, ErrLandmarkIndex) {
			t.Errorf("expected ErrLandmarkIndex, got %v", err)
		}
	})
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"same point", Point2D{1, 1}, Point2D{1, 1}, 0},
		{"horizontal", Point2D{0, 0}, Point2D{3, 0}, 3},
		{"pythagorean", Point2D{0, 0}, Point2D{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestEyeIndices_Fixed(t *testing.T) {
	wantLeft := EyeIndices{33, 160, 158, 133, 153, 144}
	wantRight := EyeIndices{362, 385, 387, 263, 373, 380}

	if LeftEye != wantLeft {
		t.Errorf("LeftEye = %v, want %v", LeftEye, wantLeft)
	}
	if RightEye != wantRight {
		t.Errorf("RightEye = %v, want %v", RightEye, wantRight)
	}
}

func TestFixtures(t *testing.T) {
	t.Run("fixtures cover refined mesh", func(t *testing.T) {
		for name, set := range map[string]LandmarkSet{
			"open":  OpenEyesLandmarks(),
			"left":  LeftWinkLandmarks(),
			"right": RightWinkLandmarks(),
			"blink": BlinkLandmarks(),
		} {
			if len(set) != NumRefinedLandmarks {
				t.Errorf("%s: expected %d landmarks, got %d", name, NumRefinedLandmarks, len(set))
			}
		}
	})

	t.Run("closed eye has smaller lid gap", func(t *testing.T) {
		set := LeftWinkLandmarks()
		left, _ := set.Eye(LeftEye)
		right, _ := set.Eye(RightEye)

		if Distance(left[1], left[5]) >= Distance(right[1], right[5]) {
			t.Error("left lid gap should be smaller than right lid gap")
		}
	})

	t.Run("degenerate fixture has coincident corners", func(t *testing.T) {
		set := DegenerateLandmarks()
		eye, _ := set.Eye(LeftEye)

		if Distance(eye[0], eye[3]) > epsilon {
			t.Error("expected left eye corners to coincide")
		}
	})
}
