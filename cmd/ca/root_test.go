package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecarows/internal/automaton"
	"ecarows/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"run", "rules", "survey", "gui"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := newRootCommand()
	width := cmd.PersistentFlags().Lookup("width")
	require.NotNil(t, width)
	assert.Equal(t, "600", width.DefValue)
	assert.Equal(t, "w", width.Shorthand)

	rule := cmd.PersistentFlags().Lookup("rule")
	require.NotNil(t, rule)
	assert.Equal(t, "Rule90", rule.DefValue)

	assert.Equal(t, "300", cmd.PersistentFlags().Lookup("max-rows").DefValue)
	assert.Equal(t, "3", cmd.PersistentFlags().Lookup("rows-per-step").DefValue)
}

func TestRunPrintsHistory(t *testing.T) {
	out, err := execute(t, "run", "--fast", "--width", "16", "--max-rows", "10", "--seed", "3", "--rule", "Rule30")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		assert.Len(t, line, 16)
		assert.Empty(t, strings.Trim(line, ".#"), "Rule30 only emits 0 and 1")
	}
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	args := []string{"run", "--fast", "--width", "32", "--max-rows", "20", "--seed", "17"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	_, err := execute(t, "run", "--fast", "--width", "8", "--max-rows", "4", "--cell-size", "2", "--png", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := execute(t, "run", "--fast", "--rule", "Rule12")
	assert.ErrorIs(t, err, rules.ErrUnknownRule)

	_, err = execute(t, "run", "--fast", "--width", "1")
	assert.Error(t, err)
}

func TestRunRejectsTickRateAboveNanosecond(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := execute(t, "run", "--width", "8", "--max-rows", "4", "--tps", "2000000000")
		assert.ErrorIs(t, err, automaton.ErrInvalidConfig)
	})
}

func TestRunSetOverrides(t *testing.T) {
	out, err := execute(t, "run", "--fast", "--set", "width=10,max_rows=4", "--set", "rule=Rule184")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Len(t, lines[0], 10)

	out, err = execute(t, "run", "--fast", "--set", "width=10,max_rows=4", "--max-rows", "2")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 2, "dedicated flags win over --set")

	_, err = execute(t, "run", "--fast", "--set", "w=10")
	assert.ErrorIs(t, err, automaton.ErrInvalidConfig)
}

func TestRunUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 12\nmax_rows: 5\nrule: Rule184\n"), 0o644))

	out, err := execute(t, "run", "--fast", "--config", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Len(t, lines[0], 12)

	out, err = execute(t, "run", "--fast", "--config", path, "--max-rows", "3")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 3, "flags override the file")
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)
	for _, name := range rules.Names() {
		assert.Contains(t, out, name+" 111:")
	}

	out, err = execute(t, "rules", "--json", "Rule184")
	require.NoError(t, err)
	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, uint8(184), infos[0].Code)

	_, err = execute(t, "rules", "Rule0")
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
}

func TestRulesWolfram(t *testing.T) {
	out, err := execute(t, "rules", "--wolfram", "30")
	require.NoError(t, err)
	assert.Equal(t, "Rule30 111:0 110:0 101:0 100:1 011:1 010:1 001:1 000:0\n", out)

	out, err = execute(t, "rules", "--wolfram", "0")
	require.NoError(t, err)
	assert.Equal(t, "Rule0 111:0 110:0 101:0 100:0 011:0 010:0 001:0 000:0\n", out)

	_, err = execute(t, "rules", "--wolfram", "30", "Rule90")
	assert.Error(t, err)

	_, err = execute(t, "rules", "--wolfram", "256")
	assert.Error(t, err)
}

func TestSurveyCommand(t *testing.T) {
	out, err := execute(t, "survey", "--width", "20", "--max-rows", "12", "--seed", "5", "--workers", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1+len(rules.Names()))
	assert.True(t, strings.HasPrefix(lines[0], "RULE"))
	for i, name := range rules.Names() {
		fields := strings.Fields(lines[i+1])
		require.NotEmpty(t, fields)
		assert.Equal(t, name, fields[0])
		assert.Equal(t, "12", fields[2])
	}
}
