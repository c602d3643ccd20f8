package face

// Fixture geometry, in normalized coordinates for a 640x480 frame.
// An eye of width w and lid gap g measures g/w normalized, and
// 0.75*g/w once converted to pixel space.
const (
	fixtureEyeWidth = 0.06
	fixtureOpenGap  = 0.024 // pixel EAR 0.30
	fixtureShutGap  = 0.004 // pixel EAR 0.05
)

// OpenEyesLandmarks returns a preset face with both eyes open.
func OpenEyesLandmarks() LandmarkSet {
	return fixtureFace(fixtureOpenGap, fixtureOpenGap)
}

// LeftWinkLandmarks returns a preset face with the left eye closed and the right eye open.
func LeftWinkLandmarks() LandmarkSet {
	return fixtureFace(fixtureShutGap, fixtureOpenGap)
}

// RightWinkLandmarks returns a preset face with the right eye closed and the left eye open.
func RightWinkLandmarks() LandmarkSet {
	return fixtureFace(fixtureOpenGap, fixtureShutGap)
}

// BlinkLandmarks returns a preset face with both eyes closed.
func BlinkLandmarks() LandmarkSet {
	return fixtureFace(fixtureShutGap, fixtureShutGap)
}

// DegenerateLandmarks returns a preset face whose left eye corners coincide.
func DegenerateLandmarks() LandmarkSet {
	set := fixtureFace(fixtureOpenGap, fixtureOpenGap)
	set[LeftEye[3]] = set[LeftEye[0]]
	return set
}

func fixtureFace(leftGap, rightGap float64) LandmarkSet {
	set := make(LandmarkSet, NumRefinedLandmarks)
	for i := range set {
		set[i] = Point2D{X: 0.5, Y: 0.5}
	}

	// The subject's left eye appears on the image's right side.
	placeEye(set, LeftEye, 0.58, 0.42, leftGap)
	placeEye(set, RightEye, 0.42, 0.42, rightGap)
	return set
}

func placeEye(set LandmarkSet, idx EyeIndices, cx, cy, gap float64) {
	half := fixtureEyeWidth / 2
	third := fixtureEyeWidth / 6

	set[idx[0]] = Point2D{X: cx - half, Y: cy}
	set[idx[3]] = Point2D{X: cx + half, Y: cy}
	set[idx[1]] = Point2D{X: cx - third, Y: cy - gap/2}
	set[idx[5]] = Point2D{X: cx - third, Y: cy + gap/2}
	set[idx[2]] = Point2D{X: cx + third, Y: cy - gap/2}
	set[idx[4]] = Point2D{X: cx + third, Y: cy + gap/2}
}
