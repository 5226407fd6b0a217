package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsfgstats/internal/errors"
)

const cliDct = `infile dictionary {
    _column(1)      str5           caseid  %5s  "RESPONDENT ID NUMBER"
    _column(6)      byte          outcome  %1f  "PREGNANCY OUTCOME"
    _column(7)      byte         birthord  %2f  "BIRTH ORDER"
    _column(9)      int          prglngth  %2f  "DURATION OF COMPLETED PREGNANCY IN WEEKS"
    _column(11)     int           agepreg  %4f  "AGE AT PREGNANCY OUTCOME"
}
`

func cliRecord(caseid, outcome, birthord, prglngth, agepreg string) string {
	return fmt.Sprintf("%5s%1s%2s%2s%4s", caseid, outcome, birthord, prglngth, agepreg)
}

// writeFixture writes a small pregnancy file: five live births, three of
// them first babies.
func writeFixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	rows := []string{
		cliRecord("1", "1", "1", "39", "3316"),
		cliRecord("1", "1", "2", "39", "3925"),
		cliRecord("2", "1", "1", "39", "1433"),
		cliRecord("2", "4", "", "6", "1783"),
		cliRecord("6", "1", "1", "40", "2200"),
		cliRecord("6", "1", "2", "38", "2275"),
	}
	dct := filepath.Join(dir, "preg.dct")
	dat := filepath.Join(dir, "preg.dat")
	require.NoError(t, os.WriteFile(dct, []byte(cliDct), 0o644))
	require.NoError(t, os.WriteFile(dat, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	return dct, dat
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REPORT_VARIABLES", "prglngth,agepreg")
	t.Setenv("TABLE_FILE", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dct, dat := writeFixture(t)

	out, err := execute(t, "run", "--dct", dct, "--dat", dat, "--skip-check")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Mode of prglngth 39", lines[0])
	assert.Equal(t, []string{"39 3", "40 1", "38 1"}, lines[1:4])
	assert.Contains(t, out, "prglngth: 39.333333333333336 38.5")
	assert.NotContains(t, out, "All tests passed")
}

func TestRunCommandChecksPublishedValues(t *testing.T) {
	dct, dat := writeFixture(t)

	out, err := execute(t, "run", "--dct", dct, "--dat", dat)
	require.Error(t, err)
	assert.Equal(t, errors.CodeCheckFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "want 4693, got 3")

	// The modes are printed before the check; comparisons only after it passes.
	assert.True(t, strings.HasPrefix(out, "Mode of prglngth 39\n39 3\n"))
	assert.NotContains(t, out, "prglngth: 39.333333333333336 38.5")
}

func TestErrorLine(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] data file x not found", errorLine(errors.NotFound("data file x")))
	assert.Equal(t, "boom", errorLine(fmt.Errorf("boom")))
}

func TestModesCommand(t *testing.T) {
	dct, dat := writeFixture(t)

	out, err := execute(t, "modes", "prglngth", "--dct", dct, "--dat", dat, "--group", "firsts", "--top", "1", "--extremes", "1")
	require.NoError(t, err)
	assert.Equal(t, "Mode of prglngth 39\n39 2\nSmallest\n39 2\nLargest\n40 1\n", out)

	_, err = execute(t, "modes", "--dct", dct, "--dat", dat, "--group", "everyone")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestEffectCommand(t *testing.T) {
	dct, dat := writeFixture(t)

	out, err := execute(t, "effect", "agepreg", "--dct", dct, "--dat", dat)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "agepreg: "))
	assert.True(t, strings.HasPrefix(lines[1], "agepreg: -"), "first babies are younger mothers here")
	assert.True(t, strings.HasPrefix(lines[2], "agepreg: -"))

	_, err = execute(t, "effect", "finalwgt", "--dct", dct, "--dat", dat)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestReportCommandJSON(t *testing.T) {
	dct, dat := writeFixture(t)
	file := filepath.Join(t.TempDir(), "report.json")

	_, err := execute(t, "report", "--dct", dct, "--dat", dat, "--format", "json", "-o", file)
	require.NoError(t, err)

	payload, err := os.ReadFile(file)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &body))
	assert.Equal(t, 39.0, body["mode"])
	assert.Equal(t, 5.0, body["live"])
	assert.Equal(t, 3.0, body["firsts"])
	assert.Equal(t, 2.0, body["others"])
	assert.Len(t, body["comparisons"], 2)

	_, err = execute(t, "report", "--dct", dct, "--dat", dat, "--format", "pdf")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDescribeCommand(t *testing.T) {
	dct, dat := writeFixture(t)

	out, err := execute(t, "describe", "--dct", dct, "--dat", dat)
	require.NoError(t, err)
	assert.Contains(t, out, "variable")
	assert.Contains(t, out, "prglngth")
	assert.Contains(t, out, "agepreg")
	assert.NotContains(t, out, "caseid")
}

func TestCheckCommand(t *testing.T) {
	dct, dat := writeFixture(t)

	_, err := execute(t, "check", "--dct", dct, "--dat", dat)
	require.Error(t, err)
	assert.Equal(t, errors.CodeCheckFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "records: want 13593, got 6")
}

func TestTableSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "preg.csv")
	csv := "caseid,outcome,birthord,prglngth,agepreg\n" +
		"1,1,1,39,33.16\n" +
		"1,1,2,39,39.25\n" +
		"2,1,1,40,14.33\n" +
		"6,1,2,38,22.75\n"
	require.NoError(t, os.WriteFile(file, []byte(csv), 0o644))

	out, err := execute(t, "modes", "--table", file)
	require.NoError(t, err)
	assert.Equal(t, "Mode of prglngth 39\n39 2\n40 1\n38 1\n", out)

	_, err = execute(t, "check", "--table", file)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--dct", filepath.Join(dir, "none.dct"), "--dat", filepath.Join(dir, "none.dat"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
