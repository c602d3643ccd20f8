package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/nayana/internal/face"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a script consumed one frame at a time.
type MockDetector struct {
	faces  []face.LandmarkSet
	script [][]face.LandmarkSet
	err    error
	calls  int
	mu     sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []face.LandmarkSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// SetScript queues per-frame results. Each Detect call consumes one entry;
// once the script is exhausted the faces from SetFaces are returned.
func (m *MockDetector) SetScript(frames [][]face.LandmarkSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Detect calls so far.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next scripted faces, the pre-configured faces, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]face.LandmarkSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
