// Package wink classifies per-frame facial landmarks into a debounced wink status.
package wink

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/nayana/internal/face"
)

// ErrDegenerateEye is returned when an eye's corner points coincide or its
// coordinates are not finite, leaving the aspect ratio undefined.
var ErrDegenerateEye = errors.New("degenerate eye geometry")

// minEyeWidth is the smallest horizontal eye distance treated as measurable.
const minEyeWidth = 1e-9

// SpaceConverter maps a normalized landmark into the space distances are measured in.
type SpaceConverter func(face.Point2D) face.Point2D

// Identity measures landmarks in their original coordinates.
func Identity(p face.Point2D) face.Point2D {
	return p
}

// PixelSpace converts normalized landmarks into the pixel space of a frame with
// the given dimensions. The dimensions must be the current frame's, since a
// non-square frame scales x and y differently.
func PixelSpace(width, height int) SpaceConverter {
	w, h := float64(width), float64(height)
	return func(p face.Point2D) face.Point2D {
		return face.Point2D{X: p.X * w, Y: p.Y * h}
	}
}

// ComputeEAR calculates the eye aspect ratio for six contour points in
// canonical order:
//
//	EAR = (|p2-p6| + |p3-p5|) / (2 * |p1-p4|)
//
// A nil converter measures in the original coordinates.
// Returns ErrDegenerateEye instead of NaN or Inf.
func ComputeEAR(eye [6]face.Point2D, convert SpaceConverter) (float64, error) {
	if convert == nil {
		convert = Identity
	}

	var pts [6]face.Point2D
	for i, p := range eye {
		pts[i] = convert(p)
		if !finite(pts[i].X) || !finite(pts[i].Y) {
			return 0, ErrDegenerateEye
		}
	}

	vertical1 := face.Distance(pts[1], pts[5])
	vertical2 := face.Distance(pts[2], pts[4])
	horizontal := face.Distance(pts[0], pts[3])

	if horizontal < minEyeWidth {
		return 0, ErrDegenerateEye
	}

	return (vertical1 + vertical2) / (2 * horizontal), nil
}

// EyeEAR extracts one eye from a landmark set and computes its aspect ratio.
func EyeEAR(set face.LandmarkSet, idx face.EyeIndices, convert SpaceConverter) (float64, error) {
	eye, err := set.Eye(idx)
	if err != nil {
		return 0, fmt.Errorf("extract eye: %w", err)
	}
	return ComputeEAR(eye, convert)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
