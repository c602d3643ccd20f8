package server

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/ayusman/nayana/internal/capture"
)

// StreamHandler serves MJPEG frames from the camera preview.
type StreamHandler struct {
	preview *capture.Preview
	fps     int
}

// NewStreamHandler creates a new StreamHandler over preview at fps frames
// per second.
func NewStreamHandler(preview *capture.Preview, fps int) *StreamHandler {
	if fps <= 0 {
		fps = defaultFeedRate
	}
	return &StreamHandler{preview: preview, fps: fps}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	detach := h.preview.Attach()
	defer detach()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	limiter := rate.NewLimiter(rate.Limit(h.fps), 1)
	var lastSeq uint64

	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		jpeg, seq := h.preview.Latest()
		if seq == lastSeq || len(jpeg) == 0 {
			continue
		}
		lastSeq = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
