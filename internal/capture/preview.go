package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Preview holds the most recent JPEG-encoded frame for stream viewers, so
// the camera has a single reader. Frames are only encoded while at least
// one viewer is attached.
type Preview struct {
	mu      sync.RWMutex
	jpeg    []byte
	seq     uint64
	viewers int
}

// NewPreview creates an empty preview buffer.
func NewPreview() *Preview {
	return &Preview{}
}

// Attach registers a viewer and returns the func that detaches it.
func (p *Preview) Attach() func() {
	p.mu.Lock()
	p.viewers++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.viewers--
			p.mu.Unlock()
		})
	}
}

// Active reports whether any viewer is attached.
func (p *Preview) Active() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewers > 0
}

// Offer encodes frame as the latest preview when a viewer is attached.
func (p *Preview) Offer(frame *gocv.Mat) error {
	if !p.Active() || frame == nil || frame.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	data := append([]byte(nil), buf.GetBytes()...)
	p.Store(data)
	return nil
}

// Store sets the latest JPEG directly.
func (p *Preview) Store(jpeg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = jpeg
	p.seq++
}

// Latest returns the latest JPEG and its sequence number; seq is 0 until
// the first frame is stored.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.seq
}
