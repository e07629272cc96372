package stock

import (
	"fmt"
	"strconv"
	"strings"
)

// referenceAttempts bounds the retry loop when two creates race for the
// same prefix and collide on the unique reference constraint.
const referenceAttempts = 3

// NextReference produces "{prefix}{n:05d}" where n is one past the
// highest numeric suffix among the existing references for the prefix.
// References whose suffix does not parse are ignored; with no usable
// predecessor the sequence starts at 1.
func NextReference(prefix string, existing []string) string {
	next := 1
	best := 0
	for _, ref := range existing {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(ref, prefix))
		if err != nil || n <= 0 {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best > 0 {
		next = best + 1
	}
	return fmt.Sprintf("%s%05d", prefix, next)
}
