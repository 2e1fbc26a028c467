// Package xr implements the AR plane-detection measurement path. The
// platform's spatial-tracking features are optional and vary by device,
// so every platform interaction goes through capability-checked
// adapters that report errors instead of panicking.
package xr

import "context"

// Capability reports what the runtime environment supports. The flow is
// gated on this before any session is requested.
type Capability struct {
	Supported      bool   `json:"supported"`
	ImmersiveAR    bool   `json:"immersive_ar"`
	PlaneDetection bool   `json:"plane_detection"`
	Message        string `json:"message"`
}

// NewCapability builds a capability report with a user-facing message.
// A device is only supported when both immersive AR and plane detection
// are available.
func NewCapability(immersiveAR, planeDetection bool) Capability {
	c := Capability{
		ImmersiveAR:    immersiveAR,
		PlaneDetection: planeDetection,
		Supported:      immersiveAR && planeDetection,
	}

	switch {
	case c.Supported:
		c.Message = "AR measurement available"
	case !immersiveAR:
		c.Message = "AR is not supported on this device or browser. Try Chrome on a recent Android phone, or use the camera or manual measurement instead."
	default:
		c.Message = "This device supports AR but not plane detection. Use the camera or manual measurement instead."
	}
	return c
}

// Checker reports device capability. Implementations typically wrap a
// client-reported feature probe.
type Checker interface {
	Check(ctx context.Context) Capability
}

// StaticChecker returns a fixed capability report.
type StaticChecker struct {
	Capability Capability
}

// Check returns the fixed report.
func (s StaticChecker) Check(ctx context.Context) Capability {
	return s.Capability
}
