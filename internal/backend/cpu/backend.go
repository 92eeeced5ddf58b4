// Package cpu implements the tensor.Backend interface in pure Go, with
// gonum/mat carrying the dense matmul kernel.
package cpu

import (
	"github.com/b2220333/google-research/internal/tensor"
)

// Backend is the CPU compute backend.
type Backend struct {
	device tensor.Device
}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *Backend) Name() string { return "cpu" }

// Device returns the backend's device.
func (c *Backend) Device() tensor.Device { return c.device }
