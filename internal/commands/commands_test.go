package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisab-dev/hisab/internal/auditlog"
	"github.com/hisab-dev/hisab/internal/coa"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "hisab-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "hisab")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/hisab")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runHisab(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func initBooks(t *testing.T, opening string) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runHisab(t, "init", dir, "--name", "Sharma General Store", "--opening", opening)
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initBooks(t, "0")

	for _, d := range []string{"accounts", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initBooks(t, "250.00")

	data, err := os.ReadFile(filepath.Join(dir, "hisab.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Sharma General Store")
	assert.Contains(t, contents, "currency: INR")
	assert.Contains(t, contents, "opening_balance: \"250.00\"")
}

func TestInit_Chart(t *testing.T) {
	dir := initBooks(t, "0")

	tree, err := coa.Load(dir)
	require.NoError(t, err)
	assert.Len(t, tree.Groups(), 31, "default chart carries the full group hierarchy")
}

func TestInit_GitRepo(t *testing.T) {
	dir := initBooks(t, "0")

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Hisab <books@hisab.dev>")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runHisab(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestRecord_AssignsSequentialIDs(t *testing.T) {
	dir := initBooks(t, "0")

	out, err := runHisab(t, "record", "Sale", "100", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-06-14-001")

	out, err = runHisab(t, "record", "Expense", "40", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-06-14-002")
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	dir := initBooks(t, "0")

	out, err := runHisab(t, "record", "Refund", "10", "--books", dir, "--date", "2025-06-14")
	require.Error(t, err)
	assert.Contains(t, out, "unknown transaction type")
}

func TestDaybook_Reconciles(t *testing.T) {
	dir := initBooks(t, "50")

	for _, args := range [][]string{
		{"record", "Sale", "100", "--books", dir, "--date", "2025-06-14"},
		{"record", "Expense", "40", "--books", dir, "--date", "2025-06-14"},
		{"record", "Sale", "20", "--books", dir, "--date", "2025-06-14"},
	} {
		out, err := runHisab(t, args...)
		require.NoError(t, err, out)
	}

	out, err := runHisab(t, "daybook", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Opening balance: 50.00")
	assert.Contains(t, out, "Cash in:  120.00")
	assert.Contains(t, out, "Cash out: 40.00")
	assert.Contains(t, out, "Closing balance: 130.00")
}

func TestDaybook_PriorDaysFeedOpening(t *testing.T) {
	dir := initBooks(t, "50")

	out, err := runHisab(t, "record", "Sale", "100", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)

	out, err = runHisab(t, "daybook", "--books", dir, "--date", "2025-06-15")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Opening balance: 150.00")
	assert.Contains(t, out, "Closing balance: 150.00")
}

func TestAdjust_RecordsBackdatedCorrection(t *testing.T) {
	dir := initBooks(t, "50")

	for _, args := range [][]string{
		{"record", "Sale", "100", "--books", dir, "--date", "2025-06-14"},
		{"record", "Expense", "40", "--books", dir, "--date", "2025-06-14"},
	} {
		out, err := runHisab(t, args...)
		require.NoError(t, err, out)
	}

	// Recorded closing is 110; the drawer actually holds 150.
	out, err := runHisab(t, "adjust", "--books", dir, "--date", "2025-06-14", "--actual", "150")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Receipt 40.00")
	assert.Contains(t, out, "2025-06-13-001", "correction should land on the prior day")

	// Re-reconciling shifts the opening, not the day's own entries.
	out, err = runHisab(t, "daybook", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Opening balance: 90.00")
	assert.Contains(t, out, "Closing balance: 150.00")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "110.00", entries[0].Recorded.StringFixed(2))
	assert.Equal(t, "150.00", entries[0].Actual.StringFixed(2))
	assert.Equal(t, "40.00", entries[0].Difference.StringFixed(2))
	assert.NotEmpty(t, entries[0].CommitHash)
}

func TestAdjust_AlreadyBalanced(t *testing.T) {
	dir := initBooks(t, "75")

	out, err := runHisab(t, "adjust", "--books", dir, "--date", "2025-06-14", "--actual", "75")
	require.NoError(t, err, out)
	assert.Contains(t, out, "already match")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport_POSSales(t *testing.T) {
	dir := initBooks(t, "0")

	posCSV := "Date,Bill No,Customer,Payment Mode,Amount\n" +
		"14/06/2025,B-101,Hariom Traders,Cash,1250.00\n" +
		"14/06/2025,B-102,,UPI,349.50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "sales.csv"), []byte(posCSV), 0o644))

	out, err := runHisab(t, "import", "--books", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 transactions from sales.csv")

	// File moved aside.
	_, err = os.Stat(filepath.Join(dir, "import", "sales.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "sales.csv"))
	assert.NoError(t, err)

	out, err = runHisab(t, "daybook", "--books", dir, "--date", "2025-06-14")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Closing balance: 1599.50")
}

func TestCoa_ShowsTree(t *testing.T) {
	dir := initBooks(t, "0")

	out, err := runHisab(t, "coa", "--books", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Assets")
	assert.Contains(t, out, "Cash-in-Hand")
	assert.Contains(t, out, "Sundry Debtors")
}

func TestCoa_AddGroupAndLedger(t *testing.T) {
	dir := initBooks(t, "0")

	out, err := runHisab(t, "coa", "add-group", "--books", dir,
		"--name", "Shop Equipment", "--parent", "fixed-assets", "--nature", "Assets")
	require.NoError(t, err, out)
	assert.Contains(t, out, "shop-equipment")

	out, err = runHisab(t, "coa", "add-ledger", "--books", dir,
		"--name", "Weighing Scale", "--group", "shop-equipment", "--opening", "4500")
	require.NoError(t, err, out)

	tree, err := coa.Load(dir)
	require.NoError(t, err)

	l, ok := tree.Ledger("weighing-scale")
	require.True(t, ok)
	assert.Equal(t, "shop-equipment", l.GroupID)
	assert.Equal(t, "4500.00", l.OpeningBalance.Amount.StringFixed(2))

	bal, err := tree.BalanceOf("shop-equipment")
	require.NoError(t, err)
	assert.Equal(t, "4500.00", bal.Amount.StringFixed(2))
}

func TestCoa_RejectsNatureConflict(t *testing.T) {
	dir := initBooks(t, "0")

	out, err := runHisab(t, "coa", "add-group", "--books", dir,
		"--name", "Misc Income", "--parent", "fixed-assets", "--nature", "Income")
	require.Error(t, err)
	assert.Contains(t, out, "hierarchy")
}
