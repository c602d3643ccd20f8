// Package face provides facial landmark types shared by the landmark source and the wink classifier.
package face

import (
	"errors"
	"fmt"
	"math"
)

// Face mesh landmark counts following the MediaPipe Face Mesh convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	NumLandmarks        = 468
	NumRefinedLandmarks = 478
)

// ErrLandmarkIndex is returned when a landmark set is too short for the requested indices.
var ErrLandmarkIndex = errors.New("landmark index out of range")

// Point2D represents a 2D landmark position.
// Coordinates from the landmark source are normalized to [0,1] of the frame.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSet is the ordered face mesh for one detected face.
type LandmarkSet []Point2D

// EyeIndices identifies one eye's contour in canonical order:
// p1 and p4 are the horizontal corners, (p2,p6) and (p3,p5) the vertical pairs.
type EyeIndices [6]int

// Eye contours in the face mesh numbering.
var (
	LeftEye  = EyeIndices{33, 160, 158, 133, 153, 144}
	RightEye = EyeIndices{362, 385, 387, 263, 373, 380}
)

// Eye extracts the six contour points for the given indices.
func (s LandmarkSet) Eye(idx EyeIndices) ([6]Point2D, error) {
	var eye [6]Point2D
	for i, n := range idx {
		if n < 0 || n >= len(s) {
			return eye, fmt.Errorf("%w: %d of %d", ErrLandmarkIndex, n, len(s))
		}
		eye[i] = s[n]
	}
	return eye, nil
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
