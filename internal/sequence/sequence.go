// Package sequence allocates the human readable account numbers
// (USER001, CHEF001, ADMIN001) from an atomic counter.
package sequence

import (
	"context"
	"fmt"
)

// Sequencer hands out monotonically increasing values per name. Two callers
// never receive the same value for the same name.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// FormatNumber renders n with prefix, zero padded to at least three digits.
func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}
