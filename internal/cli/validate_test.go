package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ian97531/origin/internal/compiler"
)

func runValidateCmd(t *testing.T, format string, verbose bool, dir string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format, Verbose: verbose})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{dir})
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidateValidSpecs(t *testing.T) {
	out, _, err := runValidateCmd(t, "text", false, writeSpecDir(t, animalSpecs))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All specs valid (2 class(es))")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	out, _, err := runValidateCmd(t, "json", false, writeSpecDir(t, animalSpecs))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Classes)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, _, err := runValidateCmd(t, "text", false, "/nonexistent/specs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := runValidateCmd(t, "text", false, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateNoClasses(t *testing.T) {
	dir := writeSpecDir(t, "package test\n\nother: 1\n")
	out, _, err := runValidateCmd(t, "text", false, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNoClasses)
}

func TestValidateSyntaxError(t *testing.T) {
	dir := writeSpecDir(t, "package test\n\nclass: Broken: {\n")
	_, _, err := runValidateCmd(t, "text", false, dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeLoadFailed)
}

func TestValidateSchemaErrors(t *testing.T) {
	dir := writeSpecDir(t, `package test

class: Loop: parent: "Loop"

class: Orphan: parent: "Missing"

class: Scaled: properties: ratio: 1.5
`)
	out, _, err := runValidateCmd(t, "text", false, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, compiler.ErrSelfParent)
	assert.Contains(t, out, compiler.ErrUnknownParent)
	assert.Contains(t, out, compiler.ErrFloatValueForbidden)
}

func TestValidateSchemaErrorsJSON(t *testing.T) {
	dir := writeSpecDir(t, `package test

class: A: parent: "B"
class: B: parent: "A"
`)
	out, _, err := runValidateCmd(t, "json", false, dir)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Errors)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrInheritanceCycle, resp.Error.Code)
}

func TestValidateVerboseOutput(t *testing.T) {
	out, errOut, err := runValidateCmd(t, "json", true, writeSpecDir(t, animalSpecs))
	require.NoError(t, err)

	assert.Contains(t, errOut, "Found 1 CUE file(s)")
	assert.Contains(t, errOut, "Validating class: Animal")
	assert.Contains(t, errOut, "Validating class: Dog")
	assert.NotContains(t, out, "Validating class")
}

func TestValidateSpecsDir(t *testing.T) {
	errs, err := ValidateSpecsDir(writeSpecDir(t, animalSpecs))
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateSpecsDir(writeSpecDir(t, "package test\n\nclass: Root: {}\n"))
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, compiler.ErrBuiltinRedeclared, errs[0].Code)

	_, err = ValidateSpecsDir("/nonexistent/specs")
	require.Error(t, err)
}
