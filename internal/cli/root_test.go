package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "meanfield", cmd.Use)
	assert.Contains(t, cmd.Long, "coordinate ascent")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"fit", "sample", "validate"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestFitCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	fitCmd, _, err := cmd.Find([]string{"fit"})
	require.NoError(t, err)

	configFlag := fitCmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	tests := []struct {
		flag string
		def  string
	}{
		{"plot", ""},
		{"max-iter", "1000"},
		{"tol", "1e-08"},
		{"seed", "42"},
		{"n", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := fitCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestSampleCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sampleCmd, _, err := cmd.Find([]string{"sample"})
	require.NoError(t, err)

	for _, name := range []string{"config", "seed", "n"} {
		assert.NotNil(t, sampleCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "xml", "sample"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_EndToEnd(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"fit", "--n", "10", "--seed", "3"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "observations 10")
	assert.Contains(t, buf.String(), "converged")
	assert.Contains(t, errBuf.String(), "starting fit")
}

func TestExecute_ExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		want       int
		wantStderr string
	}{
		{"success", []string{"sample"}, ExitSuccess, ""},
		{"bad_flag_value", []string{"fit", "--max-iter", "0"}, ExitCommandError, ""},
		{"unknown_flag", []string{"fit", "--bogus"}, ExitCommandError, "Error: unknown flag: --bogus"},
		{"invalid_format", []string{"--format", "xml", "sample"}, ExitCommandError, "Error: invalid format"},
		{"missing_argument", []string{"validate"}, ExitCommandError, "Error: accepts 1 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			got := Execute(tt.args, stdout, stderr)
			assert.Equal(t, tt.want, got)
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			} else {
				assert.NotContains(t, stderr.String(), "Error:")
			}
		})
	}
}

func TestExecute_InvalidConfigExitsWithFailure(t *testing.T) {
	path := writeConfig(t, "bad.cue", "priors: beta_prior: 0\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	got := Execute([]string{"validate", path}, stdout, stderr)
	assert.Equal(t, ExitFailure, got)
	assert.Contains(t, stdout.String(), "✗ Validation failed")
	assert.NotContains(t, stderr.String(), "Error:")
}
