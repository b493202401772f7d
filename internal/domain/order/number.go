package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const numberPrefix = "ORD"

// NumberPrefix returns the per-day prefix, e.g. "ORD-20240615-".
func NumberPrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", numberPrefix, day.UTC().Format("20060102"))
}

// FormatNumber builds an order number such as ORD-20240615-00042.
func FormatNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%05d", NumberPrefix(day), seq)
}

// NextNumber returns the number following last for the given day.
// An empty or foreign last number starts the day's sequence at 1.
func NextNumber(day time.Time, last string) string {
	prefix := NumberPrefix(day)
	if !strings.HasPrefix(last, prefix) {
		return FormatNumber(day, 1)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(last, prefix), 10, 64)
	if err != nil {
		return FormatNumber(day, 1)
	}
	return FormatNumber(day, seq+1)
}
