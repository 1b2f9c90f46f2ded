package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/cashbook"
	"github.com/hisab-dev/hisab/internal/config"
	"github.com/hisab-dev/hisab/internal/daybook"
	"github.com/hisab-dev/hisab/internal/gitops"
)

const dateFormat = "2006-01-02"

// loadBooks resolves the books directory and reads its configuration.
func loadBooks(dir string) (string, *config.Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(absDir, "hisab.yaml"))
	if err != nil {
		return "", nil, fmt.Errorf("not a hisab books directory: %w", err)
	}
	return absDir, cfg, nil
}

// parseDate parses a --date flag value, defaulting to today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", value, err)
	}
	return d, nil
}

// openingFor computes the cash position at the start of date by replaying
// everything recorded before it on top of the configured seed balance.
func openingFor(svc *cashbook.Service, cfg *config.Config, date time.Time) (decimal.Decimal, error) {
	seed, err := cfg.OpeningCash()
	if err != nil {
		return decimal.Decimal{}, err
	}
	prior, err := svc.ReadBefore(date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	rec, err := daybook.Reconcile(seed, prior)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return rec.Closing, nil
}

// autoCommit commits the books if auto_commit is enabled. Returns the
// short hash, or "" when nothing was committed.
func autoCommit(booksRoot string, cfg *config.Config, message string) (string, error) {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(booksRoot) {
		return "", nil
	}
	dirty, err := gitops.HasChanges(booksRoot)
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}
	hash, err := gitops.CommitAll(booksRoot, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return "", err
	}
	log.Debug().Str("commit", hash).Str("message", message).Msg("committed books")
	return hash, nil
}

// slugify turns a display name into a stable lowercase ID.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
