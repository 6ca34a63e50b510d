package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitFailure, "inner"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", NewExitError(ExitFailure, "boom").Error())

	underlying := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "saving", underlying)
	assert.Equal(t, "saving: disk full", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))
}

func TestOutputFormatterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	err := f.Success(map[string]int{"count": 3}, func(io.Writer) {
		t.Fatal("text renderer must not run in json mode")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatterSuccessText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Success(nil, func(w io.Writer) { fmt.Fprintln(w, "all good") })
	require.NoError(t, err)
	assert.Equal(t, "all good\n", buf.String())
}

func TestOutputFormatterErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error("CONFIG_SCHEMA_VIOLATION", "value out of range", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFIG_SCHEMA_VIOLATION", resp.Error.Code)
	assert.Equal(t, "value out of range", resp.Error.Message)
}

func TestOutputFormatterErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Error("CONFIG_SEMANTIC", "duplicate target", nil))
	assert.Equal(t, "Error [CONFIG_SEMANTIC]: duplicate target\n", buf.String())
}

func TestOutputFormatterErrorTextVerboseDetails(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}

	require.NoError(t, f.Error("CONFIG_SEMANTIC", "duplicate target", "target 99.9%"))
	assert.Contains(t, buf.String(), "Details: target 99.9%")
}
