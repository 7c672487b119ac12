package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID converts an external string identifier into an internal primary
// key. It is the single point where malformed-id errors originate: every
// repository operation that accepts a wire identifier routes through it,
// decoupling the store's native id format from the wire format. Fails with
// ErrInvalidID for anything that is not a positive decimal integer.
func ParseID(value string) (int64, error) {
	value = strings.TrimSpace(value)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}
	return id, nil
}

// FormatID renders an internal primary key in its wire form.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
