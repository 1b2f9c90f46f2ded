// Package auditlog keeps an append-only trail of cash balance
// adjustments, so every correction to the books can be traced back to
// who counted, when, and what the discrepancy was.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the adjustment log.
type Entry struct {
	Timestamp  time.Time
	Recorded   decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
	TxnID      string
	CommitHash string
}

// Header is the CSV header for adjustments.csv.
const Header = "timestamp,recorded,actual,difference,txn_id,commit_hash"

const (
	numFields     = 6
	logDir        = "logs"
	logFile       = "logs/adjustments.csv"
	colTimestamp  = 0
	colRecorded   = 1
	colActual     = 2
	colDifference = 3
	colTxnID      = 4
	colCommitHash = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRecorded] = e.Recorded.StringFixed(2)
	row[colActual] = e.Actual.StringFixed(2)
	row[colDifference] = e.Difference.StringFixed(2)
	row[colTxnID] = e.TxnID
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	recorded, err := decimal.NewFromString(record[colRecorded])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing recorded %q: %w", record[colRecorded], err)
	}
	actual, err := decimal.NewFromString(record[colActual])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing actual %q: %w", record[colActual], err)
	}
	difference, err := decimal.NewFromString(record[colDifference])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing difference %q: %w", record[colDifference], err)
	}

	return Entry{
		Timestamp:  ts,
		Recorded:   recorded,
		Actual:     actual,
		Difference: difference,
		TxnID:      record[colTxnID],
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to <booksRoot>/logs/adjustments.csv, creating the
// file and header if needed.
func Append(booksRoot string, entries []Entry) error {
	dir := filepath.Join(booksRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(booksRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening adjustment log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <booksRoot>/logs/adjustments.csv.
// Returns nil if the file does not exist.
func Read(booksRoot string) ([]Entry, error) {
	path := filepath.Join(booksRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening adjustment log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading adjustment log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
