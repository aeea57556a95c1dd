package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk"
	"github.com/aretw0/crosstalk/pkg/conflict"
	"github.com/aretw0/crosstalk/pkg/match"
)

const testCorpus = `{
  "dialogs": [
    {"dialogKey": "refund", "serviceKey": "support"},
    {"dialogKey": "billing", "serviceKey": "support"}
  ],
  "utterances": [
    {"utterance": "I want a refund", "dialogKey": "refund"},
    {"utterance": "I want my money back", "dialogKey": "billing"},
    {"utterance": "Where is my invoice", "dialogKey": "billing"}
  ],
  "services": [{"name": "support"}]
}`

// project creates a config and a vault in a temp dir and imports testCorpus.
func project(t *testing.T) (configPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "crosstalk.yaml")

	_, err := run(t, "init", "--config", configPath, "--vault", filepath.Join(dir, "vault"))
	require.NoError(t, err)

	input := filepath.Join(dir, "training.json")
	require.NoError(t, os.WriteFile(input, []byte(testCorpus), 0644))
	_, err = run(t, "import", input, "--config", configPath)
	require.NoError(t, err)
	return configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"version", "init", "import", "utterances", "keywords", "status", "scan",
		"resolve", "flag", "todo", "summary", "words", "alternatives", "watch"}

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing subcommand %q", name)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, crosstalk.Version)
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "crosstalk.yaml")
	vault := filepath.Join(dir, "vault")

	out, err := run(t, "init", "--config", configPath, "--vault", vault, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized fs vault")

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: yaml")
	assert.DirExists(t, filepath.Join(vault, ".crosstalk"))
}

func TestCommands_RequireExistingVault(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "todo", "--vault", filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = run(t, "todo", "--config", filepath.Join(dir, "none.yaml"))
	assert.Error(t, err, "an explicit --config must exist")
}

func TestWorkflow_ScanResolveSummary(t *testing.T) {
	configPath := project(t)

	_, err := run(t, "keywords", "add", "refund", "refund", "money", "--config", configPath)
	require.NoError(t, err)

	out, err := run(t, "keywords", "list", "refund", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "refund: refund, money\n", out)

	out, err = run(t, "scan", "refund", "--json", "--config", configPath)
	require.NoError(t, err)
	var scan struct {
		Results []struct {
			Dialog  string `json:"dialog"`
			Matches []struct {
				Utterance  string           `json:"utterance"`
				Percentage match.Percentage `json:"percentage"`
				Display    conflict.Display `json:"display"`
			} `json:"matches"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &scan))
	require.Len(t, scan.Results, 1)
	assert.Equal(t, "billing", scan.Results[0].Dialog)
	require.Len(t, scan.Results[0].Matches, 2)
	assert.Equal(t, match.Percentage(50), scan.Results[0].Matches[0].Percentage)
	assert.Equal(t, conflict.DisplayPending, scan.Results[0].Matches[0].Display)
	assert.Equal(t, match.Percentage(0), scan.Results[0].Matches[1].Percentage)

	out, err = run(t, "summary", "refund", "--json", "--config", configPath)
	require.NoError(t, err)
	var before conflict.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &before))
	assert.Equal(t, conflict.StateUnresolved, before.State)
	assert.Equal(t, 1, before.Pending)

	_, err = run(t, "resolve", "remove", "billing", "I want my money back", "--config", configPath)
	require.NoError(t, err)

	out, err = run(t, "summary", "refund", "--json", "--config", configPath)
	require.NoError(t, err)
	var after conflict.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &after))
	assert.Equal(t, conflict.StateResolved, after.State)
	assert.True(t, after.Resolved)
	assert.Equal(t, 0, after.Pending)

	out, err = run(t, "scan", "refund", "--conflicts", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.NotContains(t, out, "Where is my invoice")

	// the same action again clears it
	out, err = run(t, "resolve", "remove", "billing", "I want my money back", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")
}

func TestFlag_TogglesFromDialog(t *testing.T) {
	configPath := project(t)

	out, err := run(t, "flag", "billing", "I want my money back", "--from", "refund", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "flagged from refund")

	out, err = run(t, "todo", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "I want my money back")

	out, err = run(t, "flag", "billing", "I want my money back", "--from", "refund", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")
}

func TestResolve_RejectsForeignUtterance(t *testing.T) {
	configPath := project(t)

	_, err := run(t, "resolve", "remove", "refund", "I want my money back", "--config", configPath)
	assert.Error(t, err)

	_, err = run(t, "resolve", "move", "billing", "I want my money back", "billing", "--config", configPath)
	assert.Error(t, err)
}

func TestUtterances_ByLength(t *testing.T) {
	configPath := project(t)

	out, err := run(t, "utterances", "billing", "--by-length", "--json", "--config", configPath)
	require.NoError(t, err)
	var utterances []crosstalk.Utterance
	require.NoError(t, json.Unmarshal([]byte(out), &utterances))
	require.Len(t, utterances, 2)
	assert.Equal(t, "Where is my invoice", utterances[0].Text)
	assert.NotEmpty(t, utterances[0].ID)

	_, err = run(t, "utterances", "nope", "--config", configPath)
	assert.Error(t, err)
}

func TestWords(t *testing.T) {
	configPath := project(t)

	out, err := run(t, "words", "billing", "--json", "--config", configPath)
	require.NoError(t, err)
	var words map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &words))
	assert.Equal(t, []string{"my", "money", "back", "Where", "is", "invoice"}, words["billing"])
}

func TestAlternatives(t *testing.T) {
	out, err := run(t, "alternatives", "Hola, quiero pagar", "--json")
	require.NoError(t, err)
	var alts []string
	require.NoError(t, json.Unmarshal([]byte(out), &alts))
	assert.Equal(t, []string{"hola quiero paga", "hola kiero pagar", "ola quiero pagar"}, alts)
}
