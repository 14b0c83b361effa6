package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantaplan/internal/errors"
)

const ordersPlan = `
kind: output
id: "3"
column_names: [total]
outputs: [total]
source:
  kind: project
  id: "2"
  projections:
    - {symbol: total, expression: price * qty}
  source:
    kind: table_scan
    id: "1"
    table: orders
    assignments: {price: price, qty: quantity}
`

const semiJoinPlan = `
kind: semi_join
id: "3"
source_join_symbol: a
filtering_join_symbol: c
output: m
source: {kind: table_scan, id: "1", table: t, assignments: {a: a, b: b}}
filtering_source: {kind: table_scan, id: "2", table: u, assignments: {c: c}}
`

func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSymbolsText(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)
	semi := writePlan(t, dir, "semi.yaml", semiJoinPlan)

	stdout, _, err := execute(t, "symbols", orders, semi)
	require.NoError(t, err)

	assert.Equal(t,
		orders+": price, qty, total\n"+semi+": a, b, c, m\n",
		stdout)
}

func TestSymbolsPreservesArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var want strings.Builder
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("plan%02d.yaml", i)
		if i%2 == 0 {
			paths = append(paths, writePlan(t, dir, name, ordersPlan))
			want.WriteString(paths[i] + ": price, qty, total\n")
		} else {
			paths = append(paths, writePlan(t, dir, name, semiJoinPlan))
			want.WriteString(paths[i] + ": a, b, c, m\n")
		}
	}

	stdout, _, err := execute(t, append([]string{"symbols", "-j", "4"}, paths...)...)
	require.NoError(t, err)
	assert.Equal(t, want.String(), stdout)
}

func TestSymbolsJSON(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)

	stdout, _, err := execute(t, "--format", "json", "symbols", orders)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []PlanSymbols `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, orders, resp.Data[0].Plan)
	assert.Equal(t, []string{"price", "qty", "total"}, resp.Data[0].Symbols)
	assert.Len(t, resp.Data[0].Fingerprint, 16)
}

func TestSymbolsFingerprintIgnoresPlanShape(t *testing.T) {
	dir := t.TempDir()
	a := writePlan(t, dir, "a.yaml", "kind: exchange\nid: \"1\"\noutputs: [x, y]\n")
	b := writePlan(t, dir, "b.yaml", "kind: sink\nid: \"2\"\nsource: {kind: exchange, id: \"1\", outputs: [y, x, y]}\n")

	stdout, _, err := execute(t, "--format", "json", "symbols", a, b)
	require.NoError(t, err)

	var resp struct {
		Data []PlanSymbols `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, resp.Data[0].Fingerprint, resp.Data[1].Fingerprint)
}

func TestSymbolsVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)

	stdout, stderr, err := execute(t, "-v", "symbols", orders)
	require.NoError(t, err)

	assert.NotContains(t, stdout, "operation completed")
	assert.Contains(t, stderr, "Extracting symbols from 1 plan(s)")
	assert.Contains(t, stderr, "operation completed")
	assert.Contains(t, stderr, "symbols=3")
}

func TestSymbolsErrors(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)
	invalid := writePlan(t, dir, "invalid.yaml", "kind: filter\nid: \"1\"\n")

	t.Run("invalid plan document", func(t *testing.T) {
		_, stderr, err := execute(t, "symbols", orders, invalid)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.True(t, errors.IsError(err, errors.InvalidPlanDocument))
		assert.Contains(t, err.Error(), invalid)
		assert.Empty(t, stderr, "decode failures are reported once, by Execute")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "symbols", filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.True(t, errors.IsError(err, errors.IOError))
	})

	t.Run("no arguments", func(t *testing.T) {
		_, _, err := execute(t, "symbols")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := execute(t, "--format", "xml", "symbols", orders)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.True(t, errors.IsError(err, errors.InvalidParameterValue))
		assert.Contains(t, err.Error(), "invalid output format: xml")
	})
}

func TestExecuteReportsLocationAndHint(t *testing.T) {
	dir := t.TempDir()
	bad := writePlan(t, dir, "bad.yaml", "kind: sink\nid: \"2\"\nsource: {kind: tablescan, id: \"1\"}\n")

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"symbols", bad})

	code := Execute(cmd)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, out.String())

	stderr := errOut.String()
	assert.Equal(t, 1, strings.Count(stderr, "planctl: "), "error should be reported once: %s", stderr)
	assert.Contains(t, stderr, `unknown plan node kind "tablescan"`)
	assert.Contains(t, stderr, bad+": root.source")
	assert.Contains(t, stderr, "Supported kinds: aggregation,")
}

func TestExecuteSuccess(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"symbols", orders})

	assert.Equal(t, ExitSuccess, Execute(cmd))
	assert.Equal(t, orders+": price, qty, total\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)
	cfgPath := writePlan(t, dir, "planctl.json",
		`{"log_level": "warn", "output": {"format": "json"}, "extraction": {"workers": 1}}`)

	stdout, _, err := execute(t, "--config", cfgPath, "symbols", orders)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)), "config file should select JSON output: %s", stdout)

	t.Run("flags override the file", func(t *testing.T) {
		stdout, _, err := execute(t, "--config", cfgPath, "--format", "text", "symbols", orders)
		require.NoError(t, err)
		assert.Equal(t, orders+": price, qty, total\n", stdout)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := writePlan(t, dir, "bad.json", `{"extraction": {"workers": 0}}`)
		_, _, err := execute(t, "--config", bad, "symbols", orders)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestExplain(t *testing.T) {
	dir := t.TempDir()
	orders := writePlan(t, dir, "orders.yaml", ordersPlan)

	stdout, _, err := execute(t, "explain", orders)
	require.NoError(t, err)

	want := `Output(total) [id=3] => ["total"]
  Project(total := price * qty) [id=2] => ["total"]
    TableScan(orders) [id=1] => ["price", "qty"]
`
	assert.Equal(t, want, stdout)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "--format", "json", "explain", orders)
		require.NoError(t, err)

		var resp struct {
			Data PlanExplanation `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		assert.Equal(t, orders, resp.Data.Plan)
		assert.Len(t, resp.Data.Lines, 3)
	})

	t.Run("exactly one plan", func(t *testing.T) {
		_, _, err := execute(t, "explain", orders, orders)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestKinds(t *testing.T) {
	stdout, _, err := execute(t, "kinds")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, lines, "semi_join")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"extraction failure", WrapExitError(ExitFailure, "could not extract symbols", errors.UnsupportedPlanNodeError("*planner.ValuesNode", "7")), ExitFailure},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "inner")), ExitFailure},
		{"cobra error", fmt.Errorf("unknown flag: --nope"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())

	err := WrapExitError(ExitFailure, "could not extract symbols from p.yaml",
		errors.UnsupportedPlanNodeError("*planner.ValuesNode", "7"))
	assert.Contains(t, err.Error(), "could not extract symbols from p.yaml: ")
	assert.Contains(t, err.Error(), "not yet implemented: *planner.ValuesNode")
}
