package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvalidPermutation = errors.New("invalid permutation")
	ErrReadOnly           = errors.New("read-only view cannot be modified")
	ErrStaleView          = errors.New("view is stale: owning tensor was reshaped, permuted or moved")
	ErrDeviceUnavailable  = errors.New("device unavailable")
)

// IndexError reports an index component outside its dimension.
type IndexError struct {
	Dim   int // Dimension the index applies to
	Index int // Offending index
	Size  int // Size of that dimension
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for dimension %d (size %d)", e.Index, e.Dim, e.Size)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
