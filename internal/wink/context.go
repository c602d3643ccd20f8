package wink

import (
	"regexp"
)

// Capture resolutions per runtime context.
const (
	DefaultCaptureWidth      = 640
	DefaultCaptureHeight     = 480
	ConstrainedCaptureWidth  = 320
	ConstrainedCaptureHeight = 240

	// constrainedMaxCPU is the largest core count still treated as constrained.
	constrainedMaxCPU = 2
)

var mobileAgent = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|mobile`)

// RuntimeContext describes the device class the session runs on.
// It is resolved once at startup and never changes for the session.
type RuntimeContext struct {
	Constrained bool `json:"constrained"`
}

// ProbeContext decides the runtime context from a user-agent string and the
// host's CPU count. Mobile agents and hosts with two or fewer CPUs are constrained.
func ProbeContext(userAgent string, numCPU int) RuntimeContext {
	if userAgent != "" && mobileAgent.MatchString(userAgent) {
		return RuntimeContext{Constrained: true}
	}
	if numCPU > 0 && numCPU <= constrainedMaxCPU {
		return RuntimeContext{Constrained: true}
	}
	return RuntimeContext{}
}

// CaptureSize returns the capture resolution to request for this context.
func (rc RuntimeContext) CaptureSize() (width, height int) {
	if rc.Constrained {
		return ConstrainedCaptureWidth, ConstrainedCaptureHeight
	}
	return DefaultCaptureWidth, DefaultCaptureHeight
}

// String returns "constrained" or "default".
func (rc RuntimeContext) String() string {
	if rc.Constrained {
		return "constrained"
	}
	return "default"
}
