package serialization

import (
	"github.com/pkg/errors"
)

// ErrParse is returned, wrapped with the failing position, for any malformed
// or truncated input.
var ErrParse = errors.New("malformed tensor text")

// parseErrorf wraps ErrParse with token position context.
func parseErrorf(pos int, format string, args ...any) error {
	return errors.Wrapf(ErrParse, "token %d: "+format, append([]any{pos}, args...)...)
}
