// Package id formats and parses cashbook transaction IDs.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// FormatTxnID returns a transaction ID like "2025-06-14-001".
func FormatTxnID(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", date.Format(dateFormat), seq)
}

// ParseTxnID parses "2025-06-14-001" into its date and sequence number.
func ParseTxnID(id string) (date time.Time, seq int, err error) {
	i := strings.LastIndex(id, "-")
	if i < 0 || i == len(id)-1 {
		return time.Time{}, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	date, err = time.Parse(dateFormat, id[:i])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid date in transaction ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}

	return date, seq, nil
}
