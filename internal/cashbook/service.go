package cashbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hisab-dev/hisab/internal/id"
	"github.com/hisab-dev/hisab/internal/model"
)

// Service provides business logic over the cashbook files in a books root.
type Service struct {
	booksRoot string
}

// NewService creates a cashbook Service.
func NewService(booksRoot string) *Service {
	return &Service{booksRoot: booksRoot}
}

// Add assigns the transaction the next ID for its date, validates the whole
// month including the new row, and appends it to the month's cashbook.csv.
// Returns the assigned ID.
func (s *Service) Add(txn model.Transaction) (string, error) {
	if txn.Date.IsZero() {
		return "", fmt.Errorf("transaction has no date")
	}

	year := txn.Date.Year()
	month := int(txn.Date.Month())

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}

	seq := nextDaySeq(existing, txn.Date)
	txn.ID = id.FormatTxnID(txn.Date, seq)

	all := append(existing, txn)
	if verrs := ValidateTransactions(all, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating cashbook dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening cashbook: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, []model.Transaction{txn}); err != nil {
		return "", fmt.Errorf("appending transaction: %w", err)
	}

	return txn.ID, nil
}

// ReadMonth reads all transactions for a given year/month. A missing file
// is an empty month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening cashbook %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading cashbook %s: %w", path, err)
	}
	return txns, nil
}

// ReadDay returns the transactions recorded on a single date, in file
// order. File order is chronological as recorded and is what the daybook
// reconciler replays.
func (s *Service) ReadDay(date time.Time) ([]model.Transaction, error) {
	monthTxns, err := s.ReadMonth(date.Year(), int(date.Month()))
	if err != nil {
		return nil, err
	}

	day := date.Format("2006-01-02")
	var txns []model.Transaction
	for _, txn := range monthTxns {
		if txn.Date.Format("2006-01-02") == day {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

// ReadBefore returns every transaction dated strictly before the given
// date, across all months, in file order.
func (s *Service) ReadBefore(date time.Time) ([]model.Transaction, error) {
	months, err := s.months()
	if err != nil {
		return nil, err
	}

	cutoff := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var txns []model.Transaction
	for _, ym := range months {
		if ym.year > date.Year() || (ym.year == date.Year() && ym.month > int(date.Month())) {
			break
		}
		monthTxns, err := s.ReadMonth(ym.year, ym.month)
		if err != nil {
			return nil, err
		}
		for _, txn := range monthTxns {
			if txn.Date.Before(cutoff) {
				txns = append(txns, txn)
			}
		}
	}
	return txns, nil
}

type yearMonth struct {
	year  int
	month int
}

// months lists every YYYY/MM that has a cashbook file, ascending.
func (s *Service) months() ([]yearMonth, error) {
	years, err := os.ReadDir(s.booksRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading books root: %w", err)
	}

	var out []yearMonth
	for _, ye := range years {
		if !ye.IsDir() {
			continue
		}
		year, err := strconv.Atoi(ye.Name())
		if err != nil || year < 1000 {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(s.booksRoot, ye.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading year dir %s: %w", ye.Name(), err)
		}
		for _, me := range monthDirs {
			if !me.IsDir() {
				continue
			}
			month, err := strconv.Atoi(me.Name())
			if err != nil || month < 1 || month > 12 {
				continue
			}
			if _, err := os.Stat(s.monthPath(year, month)); err == nil {
				out = append(out, yearMonth{year: year, month: month})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].month < out[j].month
	})
	return out, nil
}

func nextDaySeq(txns []model.Transaction, date time.Time) int {
	day := date.Format("2006-01-02")
	maxSeq := 0
	for _, txn := range txns {
		idDate, seq, err := id.ParseTxnID(txn.ID)
		if err != nil {
			continue
		}
		if idDate.Format("2006-01-02") == day && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.booksRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "cashbook.csv")
}
