package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceType identifies a class of compute device.
type DeviceType int

// Supported device types.
const (
	DeviceCPU DeviceType = iota
	DeviceCUDA
)

// String returns a human-readable device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

// Device is an equality-comparable placement tag. Only the CPU holds data;
// other devices can be named but not targeted.
type Device struct {
	Type  DeviceType
	Index int
}

// CPU is the host device every tensor lives on.
var CPU = Device{Type: DeviceCPU}

// CUDA returns the tag for the CUDA device with the given ordinal.
func CUDA(index int) Device {
	return Device{Type: DeviceCUDA, Index: index}
}

// IsCPU reports whether d is a host device.
func (d Device) IsCPU() bool { return d.Type == DeviceCPU }

// IsCUDA reports whether d is a CUDA device.
func (d Device) IsCUDA() bool { return d.Type == DeviceCUDA }

// String returns "cpu" or "cuda:N".
func (d Device) String() string {
	if d.Type == DeviceCUDA {
		return fmt.Sprintf("cuda:%d", d.Index)
	}
	return d.Type.String()
}

// ParseDevice parses the String form of a device ("cpu", "cuda", "cuda:1").
func ParseDevice(s string) (Device, error) {
	switch s {
	case "cpu":
		return CPU, nil
	case "cuda":
		return CUDA(0), nil
	}
	if rest, ok := strings.CutPrefix(s, "cuda:"); ok {
		if idx, err := strconv.Atoi(rest); err == nil && idx >= 0 {
			return CUDA(idx), nil
		}
	}
	return Device{}, fmt.Errorf("%w: unknown device %q", ErrDeviceUnavailable, s)
}
