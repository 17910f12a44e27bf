package serialization

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dlf-ml/dlf/internal/tensor"
)

// maxPrealloc bounds the element slice allocated up front while decoding,
// so a bogus header cannot force a huge allocation before data is read.
const maxPrealloc = 1 << 16

// maxTokenSize is the longest token Decode accepts. No valid element or
// dimension comes close to it.
const maxTokenSize = 4096

// Serialize renders t in the text format.
func Serialize[T tensor.DType](t *tensor.Tensor[T]) string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = Encode(&sb, t)
	return sb.String()
}

// Deserialize parses the text format into a new tensor.
func Deserialize[T tensor.DType](s string) (*tensor.Tensor[T], error) {
	return Decode[T](strings.NewReader(s))
}

// Encode writes t to w in the text format.
func Encode[T tensor.DType](w io.Writer, t *tensor.Tensor[T]) error {
	bw := bufio.NewWriter(w)
	shape := t.Shape()

	bw.WriteString(strconv.Itoa(len(shape)))
	for _, d := range shape {
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(d))
	}
	for _, v := range t.Data() {
		bw.WriteByte(' ')
		bw.WriteString(formatElem(v))
	}
	bw.WriteByte('\n')

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "write tensor text")
	}
	return nil
}

// Decode reads one tensor from r. The whole remaining input must belong to
// the tensor; trailing tokens are a parse error.
func Decode[T tensor.DType](r io.Reader) (*tensor.Tensor[T], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 512), maxTokenSize)
	sc.Split(bufio.ScanWords)
	pos := 0

	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", scanError(pos+1, err)
			}
			return "", parseErrorf(pos, "unexpected end of input, want %s", what)
		}
		pos++
		return sc.Text(), nil
	}

	tok, err := next("rank")
	if err != nil {
		return nil, err
	}
	rank, err := strconv.Atoi(tok)
	if err != nil || rank < 0 {
		return nil, parseErrorf(pos, "invalid rank %q", tok)
	}

	shape := make(tensor.Shape, rank)
	for i := range shape {
		tok, err := next("dimension")
		if err != nil {
			return nil, err
		}
		d, err := strconv.Atoi(tok)
		if err != nil || d < 0 {
			return nil, parseErrorf(pos, "invalid dimension %q", tok)
		}
		shape[i] = d
	}
	if err := shape.Validate(); err != nil {
		return nil, parseErrorf(pos, "%v", err)
	}

	n := shape.NumElements()
	data := make([]T, 0, min(n, maxPrealloc))
	for range n {
		tok, err := next("element")
		if err != nil {
			return nil, err
		}
		v, err := parseElem[T](tok)
		if err != nil {
			return nil, parseErrorf(pos, "invalid %s element %q: %v", tensor.DataTypeOf[T](), tok, err)
		}
		data = append(data, v)
	}

	if sc.Scan() {
		return nil, parseErrorf(pos+1, "unexpected trailing token %q after %d elements", sc.Text(), n)
	}
	if err := sc.Err(); err != nil {
		return nil, scanError(pos+1, err)
	}

	return tensor.FromSlice(data, shape)
}

// scanError classifies a scanner failure. An oversized token is malformed
// input; anything else came from the reader.
func scanError(pos int, err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return parseErrorf(pos, "token longer than %d bytes", maxTokenSize)
	}
	return errors.Wrap(err, "read tensor text")
}

// Save writes t to the named file.
func Save[T tensor.DType](path string, t *tensor.Tensor[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	if err := Encode(f, t); err != nil {
		_ = f.Close() // Best effort close on error
		return err
	}
	return errors.Wrapf(f.Close(), "close %q", path)
}

// Load reads a tensor from the named file.
func Load[T tensor.DType](path string) (*tensor.Tensor[T], error) {
	//nolint:gosec // G304: path is supplied by the caller on purpose
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	t, err := Decode[T](f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", path)
	}
	return t, nil
}

func formatElem[T tensor.DType](v T) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		panic("unsupported type")
	}
}

func parseElem[T tensor.DType](s string) (T, error) {
	var zero T
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case float32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		v = float32(f)
	case float64:
		v, err = strconv.ParseFloat(s, 64)
	case int8:
		var i int64
		i, err = strconv.ParseInt(s, 10, 8)
		v = int8(i)
	case int16:
		var i int64
		i, err = strconv.ParseInt(s, 10, 16)
		v = int16(i)
	case int32:
		var i int64
		i, err = strconv.ParseInt(s, 10, 32)
		v = int32(i)
	case int64:
		v, err = strconv.ParseInt(s, 10, 64)
	case uint8:
		var u uint64
		u, err = strconv.ParseUint(s, 10, 8)
		v = uint8(u)
	case bool:
		switch s {
		case "1", "true":
			v = true
		case "0", "false":
			v = false
		default:
			err = errors.New("not a bool")
		}
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
