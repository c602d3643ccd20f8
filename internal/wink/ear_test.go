package wink

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ayusman/nayana/internal/face"
)

const epsilon = 1e-9

// eyeFromGaps builds an eye with corners at (0,0) and (width,0) and the two
// vertical pairs opened by gap1 and gap2.
func eyeFromGaps(width, gap1, gap2 float64) [6]face.Point2D {
	return [6]face.Point2D{
		{X: 0, Y: 0},
		{X: 0.3 * width, Y: -gap1 / 2},
		{X: 0.7 * width, Y: -gap2 / 2},
		{X: width, Y: 0},
		{X: 0.7 * width, Y: gap2 / 2},
		{X: 0.3 * width, Y: gap1 / 2},
	}
}

func TestComputeEAR(t *testing.T) {
	tests := []struct {
		name string
		eye  [6]face.Point2D
		want float64
	}{
		{
			name: "open eye",
			eye:  eyeFromGaps(1.0, 0.18, 0.16),
			want: 0.17,
		},
		{
			name: "closed eye",
			eye:  eyeFromGaps(1.0, 0.01, 0.01),
			want: 0.01,
		},
		{
			name: "fully shut",
			eye:  eyeFromGaps(1.0, 0, 0),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEAR(tt.eye, Identity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("ComputeEAR() = %f, want %f", got, tt.want)
			}
		})
	}

	t.Run("nil converter measures original coordinates", func(t *testing.T) {
		got, err := ComputeEAR(eyeFromGaps(1.0, 0.18, 0.16), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-0.17) > epsilon {
			t.Errorf("ComputeEAR() = %f, want 0.17", got)
		}
	})
}

func TestComputeEAR_UniformScaleInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		var eye [6]face.Point2D
		for j := range eye {
			eye[j] = face.Point2D{X: rng.Float64(), Y: rng.Float64()}
		}
		if face.Distance(eye[0], eye[3]) < 1e-6 {
			continue
		}

		base, err := ComputeEAR(eye, Identity)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}

		for _, k := range []float64{0.001, 0.5, 3, 640, 1e6} {
			scaled, err := ComputeEAR(eye, func(p face.Point2D) face.Point2D {
				return face.Point2D{X: p.X * k, Y: p.Y * k}
			})
			if err != nil {
				t.Fatalf("case %d scale %v: unexpected error: %v", i, k, err)
			}
			if math.Abs(scaled-base) > 1e-9*math.Max(1, base) {
				t.Errorf("case %d scale %v: EAR %f, want %f", i, k, scaled, base)
			}
		}
	}
}

func TestComputeEAR_AnisotropicScaling(t *testing.T) {
	// Normalized landmarks on a 4:3 frame: the same normalized shape measures
	// differently once x and y are scaled by the real frame dimensions.
	eye := eyeFromGaps(0.06, 0.024, 0.024)

	normalized, err := ComputeEAR(eye, Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pixel, err := ComputeEAR(eye, PixelSpace(640, 480))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(normalized-0.4) > epsilon {
		t.Errorf("normalized EAR = %f, want 0.4", normalized)
	}
	if math.Abs(pixel-0.3) > epsilon {
		t.Errorf("pixel EAR = %f, want 0.3", pixel)
	}

	t.Run("square frame matches uniform scaling", func(t *testing.T) {
		square, err := ComputeEAR(eye, PixelSpace(480, 480))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(square-normalized) > epsilon {
			t.Errorf("square EAR = %f, want %f", square, normalized)
		}
	})
}

func TestComputeEAR_Degenerate(t *testing.T) {
	t.Run("coincident corners", func(t *testing.T) {
		eye := eyeFromGaps(0, 0.1, 0.1)

		got, err := ComputeEAR(eye, Identity)
		if !errors.Is(err, ErrDegenerateEye) {
			t.Fatalf("expected ErrDegenerateEye, got %v", err)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("expected finite fallback, got %f", got)
		}
	})

	t.Run("all points coincide", func(t *testing.T) {
		var eye [6]face.Point2D

		got, err := ComputeEAR(eye, Identity)
		if !errors.Is(err, ErrDegenerateEye) {
			t.Fatalf("expected ErrDegenerateEye, got %v", err)
		}
		if math.IsNaN(got) {
			t.Error("NaN leaked from degenerate eye")
		}
	})

	t.Run("NaN coordinate", func(t *testing.T) {
		eye := eyeFromGaps(1, 0.1, 0.1)
		eye[2].Y = math.NaN()

		if _, err := ComputeEAR(eye, Identity); !errors.Is(err, ErrDegenerateEye) {
			t.Errorf("expected ErrDegenerateEye, got %v", err)
		}
	})

	t.Run("zero frame width collapses eye", func(t *testing.T) {
		eye := eyeFromGaps(0.06, 0.02, 0.02)

		if _, err := ComputeEAR(eye, PixelSpace(0, 480)); !errors.Is(err, ErrDegenerateEye) {
			t.Errorf("expected ErrDegenerateEye, got %v", err)
		}
	})
}

func TestEyeEAR(t *testing.T) {
	t.Run("fixture eyes in pixel space", func(t *testing.T) {
		set := face.LeftWinkLandmarks()
		convert := PixelSpace(640, 480)

		left, err := EyeEAR(set, face.LeftEye, convert)
		if err != nil {
			t.Fatalf("left: unexpected error: %v", err)
		}
		right, err := EyeEAR(set, face.RightEye, convert)
		if err != nil {
			t.Fatalf("right: unexpected error: %v", err)
		}

		if math.Abs(left-0.05) > 1e-6 {
			t.Errorf("left EAR = %f, want 0.05", left)
		}
		if math.Abs(right-0.30) > 1e-6 {
			t.Errorf("right EAR = %f, want 0.30", right)
		}
	})

	t.Run("short landmark set", func(t *testing.T) {
		set := make(face.LandmarkSet, 10)

		_, err := EyeEAR(set, face.LeftEye, Identity)
		if !errors.Is(err, face.ErrLandmarkIndex) {
			t.Errorf("expected ErrLandmarkIndex, got %v", err)
		}
	})
}
