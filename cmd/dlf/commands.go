package main

import (
	"fmt"
	"io"

	"github.com/dlf-ml/dlf/internal/interop"
	"github.com/dlf-ml/dlf/internal/serialization"
	"github.com/dlf-ml/dlf/internal/tensor"
)

func dispatch(e *env, j job) error {
	switch j.dtype {
	case "float32":
		return runJob[float32](e, j)
	case "float64":
		return runJob[float64](e, j)
	case "int8":
		return runJob[int8](e, j)
	case "int16":
		return runJob[int16](e, j)
	case "int32":
		return runJob[int32](e, j)
	case "int64":
		return runJob[int64](e, j)
	case "uint8":
		return runJob[uint8](e, j)
	case "bool":
		return runJob[bool](e, j)
	default:
		return fmt.Errorf("unsupported -type %q", j.dtype)
	}
}

func runJob[T tensor.DType](e *env, j job) error {
	t, err := load[T](e, j.path)
	if err != nil {
		return err
	}
	e.log.Debugf("loaded %s from %s", t, j.path)

	switch j.kind {
	case "inspect":
		return inspect(e.stdout, t)
	case "reshape":
		if err := t.Reshape(j.shape); err != nil {
			return err
		}
		e.log.Infof("reshaped to %v", j.shape)
		return serialization.Encode(e.stdout, t)
	case "permute":
		if err := t.PermuteParallel(j.parallel, j.axes...); err != nil {
			return err
		}
		e.log.Infof("permuted axes %v, shape now %v", j.axes, t.Shape())
		return serialization.Encode(e.stdout, t)
	case "get":
		v, err := t.At(j.index...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, v)
		return err
	default:
		return fmt.Errorf("unknown command %q", j.kind)
	}
}

func load[T tensor.DType](e *env, path string) (*tensor.Tensor[T], error) {
	if path == "-" {
		return serialization.Decode[T](e.stdin)
	}
	return serialization.Load[T](path)
}

func inspect[T tensor.DType](w io.Writer, t *tensor.Tensor[T]) error {
	buf := interop.NewBuffer(t)
	_, err := fmt.Fprintf(w,
		"dtype:   %s\nformat:  %s\nrank:    %d\nshape:   %v\nstrides: %v\nbytes:   %v\nsize:    %d\nempty:   %t\ndevice:  %s\n",
		t.DType(), buf.Format, t.Rank(), t.Shape(), t.Strides(), buf.Strides, t.Size(), t.Empty(), t.Device())
	return err
}
