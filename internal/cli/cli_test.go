package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpuquery"
)

const scenarioDir = "../scenario/testdata"

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "qsreplay", cmd.Use)
	assert.Equal(t, gpuquery.Version, cmd.Version)

	for _, name := range []string{"run", "codes", "capabilities"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, FormatText, format.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	require.NotNil(t, cmd.PersistentFlags().Lookup("backend"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "codes", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestEnvironment(t *testing.T) {
	t.Run("format default", func(t *testing.T) {
		t.Setenv("QSREPLAY_FORMAT", FormatJSON)
		cmd := NewRootCommand()
		assert.Equal(t, FormatJSON, cmd.PersistentFlags().Lookup("format").DefValue)
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv("QSREPLAY_FORMAT", FormatJSON)
		out, err := execute(t, "codes", "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, out, " 1 InvalidEnum\n")
	})

	t.Run("malformed", func(t *testing.T) {
		t.Setenv("QSREPLAY_VERBOSE", "sometimes")
		_, err := execute(t, "codes")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, ExitCode(err))
		assert.Contains(t, err.Error(), "parse env")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := execute(t, "codes", "--log-level", "loud")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `log level "loud"`)
	})
}

func TestRun_Pass(t *testing.T) {
	out, err := execute(t, "run",
		filepath.Join(scenarioDir, "occlusion_default_device.yaml"),
		filepath.Join(scenarioDir, "destroy_before_submit.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "scenario: occlusion_default_device\n")
	assert.Contains(t, out, "scenario: destroy_before_submit\n")
	assert.Contains(t, out, "6 submit gpu [cb] -> UseAfterDestroyAtSubmit\n")
	assert.NotContains(t, out, "result: fail")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "run", "--format", "json",
		filepath.Join(scenarioDir, "cross_device_write.yaml"))
	require.NoError(t, err)

	var results []struct {
		Scenario string `json:"scenario"`
		Events   []any  `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "cross_device_write", results[0].Scenario)
	assert.NotEmpty(t, results[0].Events)
}

func TestRun_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: wrong
devices:
  - name: gpu
steps:
  - op: create_query_set
    device: gpu
    set: ts
    type: timestamp
    count: 1
`), 0o644))

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, err.Error(), "1 of 1 scenario(s) failed")
	assert.Contains(t, out, "failure: step 1 (create_query_set): got MissingCapability, want ok\n")
}

func TestRun_CommandErrors(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("name: x\n"), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no args", []string{"run"}, "requires at least 1 arg"},
		{"missing file", []string{"run", "does-not-exist.yaml"}, "load scenario"},
		{"malformed", []string{"run", malformed}, "invalid scenario"},
		{
			"unknown backend",
			[]string{"run", "--backend", "vulkan-missing", filepath.Join(scenarioDir, "boundaries.yaml")},
			"run scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, ExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCodes(t *testing.T) {
	out, err := execute(t, "codes")
	require.NoError(t, err)
	assert.Contains(t, out, " 1 InvalidEnum\n")
	assert.Contains(t, out, "18 Internal\n")
	assert.NotContains(t, out, "gpuquery:")

	out, err = execute(t, "codes", "--format", "json")
	require.NoError(t, err)
	var entries []codeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(gpuquery.ErrorCodes()))
	assert.Equal(t, codeEntry{Value: 7, Name: "WrongQueryType"}, entries[6])
}

func TestCapabilities(t *testing.T) {
	out, err := execute(t, "capabilities")
	require.NoError(t, err)
	assert.Contains(t, out, "adapter: Noop Adapter (Unknown)\n")
	assert.Contains(t, out, "timestamp_query")
	assert.Contains(t, out, "pipeline_statistics_query")

	out, err = execute(t, "capabilities", "--format", "json")
	require.NoError(t, err)
	var report capabilityReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Capabilities, 2)
	for _, c := range report.Capabilities {
		assert.True(t, c.Supported, c.Tag)
	}

	_, err = execute(t, "capabilities", "--backend", "vulkan-missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, ExitCode(assert.AnError))

	wrapped := WrapExitError(ExitFailure, "outer", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "outer: "+assert.AnError.Error(), wrapped.Error())
}
