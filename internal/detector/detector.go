// Package detector provides face landmark detection for wink classification.
package detector

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gocv.io/x/gocv"

	"github.com/ayusman/nayana/internal/face"
)

// Detector defines the interface for face landmark implementations.
type Detector interface {
	// Detect analyzes a video frame and returns one landmark set per detected face,
	// with coordinates normalized to the frame.
	// Returns an empty slice if no face is detected.
	Detect(frame *gocv.Mat) ([]face.LandmarkSet, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face landmark detection.
type Config struct {
	// MaxFaces is the maximum number of faces to detect (default: 1).
	MaxFaces int `validate:"gte=1,lte=4"`

	// RefineLandmarks enables the iris-refined 478 point mesh.
	RefineLandmarks bool

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `validate:"gte=0,lte=1"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `validate:"gte=0,lte=1"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:        1,
		RefineLandmarks: true,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks the option ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("detector config: %w", err)
	}
	return nil
}

// FirstFace reduces a detection result to at most one face.
func FirstFace(faces []face.LandmarkSet) []face.LandmarkSet {
	if len(faces) <= 1 {
		return faces
	}
	return faces[:1]
}
