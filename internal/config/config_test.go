package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Sharma General Store")
	cfg.Shop.GSTNumber = "29ABCDE1234F1Z5"
	cfg.Cash.OpeningBalance = "2500.50"

	path := filepath.Join(t.TempDir(), "hisab.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Shop.Name, got.Shop.Name)
	assert.Equal(t, cfg.Shop.GSTNumber, got.Shop.GSTNumber)
	assert.Equal(t, cfg.Shop.Currency, got.Shop.Currency)
	assert.Equal(t, cfg.Shop.Timezone, got.Shop.Timezone)
	assert.Equal(t, cfg.Fiscal.YearStart, got.Fiscal.YearStart)
	assert.Equal(t, cfg.Git.AutoCommit, got.Git.AutoCommit)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
	assert.Equal(t, cfg.Git.AuthorEmail, got.Git.AuthorEmail)

	opening, err := got.OpeningCash()
	require.NoError(t, err)
	assert.Equal(t, "2500.50", opening.StringFixed(2))
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Shop")

	assert.Equal(t, "My Shop", cfg.Shop.Name)
	assert.Equal(t, "INR", cfg.Shop.Currency)
	assert.Equal(t, "Asia/Kolkata", cfg.Shop.Timezone)
	assert.Equal(t, "04-01", cfg.Fiscal.YearStart)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Hisab", cfg.Git.AuthorName)
	assert.Equal(t, "books@hisab.dev", cfg.Git.AuthorEmail)

	opening, err := cfg.OpeningCash()
	require.NoError(t, err)
	assert.True(t, opening.IsZero())
}

func TestOpeningCash(t *testing.T) {
	cfg := Default("My Shop")

	cfg.Cash.OpeningBalance = ""
	opening, err := cfg.OpeningCash()
	require.NoError(t, err)
	assert.True(t, opening.IsZero())

	cfg.Cash.OpeningBalance = "not-a-number"
	_, err = cfg.OpeningCash()
	require.Error(t, err)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Sharma General Store")
	path := filepath.Join(t.TempDir(), "hisab.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Sharma General Store")
	assert.Contains(t, contents, "currency: INR")
	assert.Contains(t, contents, "year_start: 04-01")
	assert.Contains(t, contents, "auto_commit: true")
}
