package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "origin", cmd.Use)
	assert.Contains(t, cmd.Long, "origin.yaml")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"validate", "compile", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	config := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "c", config.Shorthand)
}

func TestSubcommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)
	output := compileCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)

	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)
	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "compile", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigFileSetsFormat(t *testing.T) {
	specs := writeSpecDir(t, animalSpecs)
	cfgDir := writeFiles(t, t.TempDir(), map[string]string{"origin.yaml": "format: json\n"})

	out, err := executeRoot(t, "--config", filepath.Join(cfgDir, "origin.yaml"), "validate", specs)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFlagOverridesConfig(t *testing.T) {
	specs := writeSpecDir(t, animalSpecs)
	cfgDir := writeFiles(t, t.TempDir(), map[string]string{"origin.yaml": "format: json\n"})

	out, err := executeRoot(t, "--config", filepath.Join(cfgDir, "origin.yaml"), "--format", "text", "validate", specs)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All specs valid")
}

func TestConfigScenarioDir(t *testing.T) {
	scenarios := writeScenarioTree(t, map[string]string{"dog.yaml": dogScenario})
	cfgDir := writeFiles(t, t.TempDir(), map[string]string{
		"origin.yaml": "scenarios: " + scenarios + "\n",
	})

	out, err := executeRoot(t, "--config", filepath.Join(cfgDir, "origin.yaml"), "test")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ dog")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := executeRoot(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "validate", ".")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd := NewRootCommand()
	opts := &RootOptions{}
	require.NoError(t, loadConfig(opts, cmd.PersistentFlags()))

	assert.Equal(t, "text", opts.Format)
	assert.False(t, opts.Verbose)
	assert.Equal(t, defaultScenarioDir, opts.ScenarioDir)
}
