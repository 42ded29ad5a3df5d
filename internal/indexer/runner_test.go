package indexer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestNewRunner(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(hclog.NewNullLogger(), "  ")
	require.ErrorContains(t, err, "indexer command cannot be empty")

	r, err := NewRunner(hclog.NewNullLogger(), "indexer-cli")
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name        string
		output      string
		wantStatus  string
		wantMessage string
		wantErr     string
	}{
		{
			name:       "bare object",
			output:     `{"status":"ok","message":"indexed 42 files"}`,
			wantStatus: "ok",
		},
		{
			name:       "object surrounded by progress noise",
			output:     "scanning...\n50%\n{\"status\":\"ok\"}\ndone\n",
			wantStatus: "ok",
		},
		{
			name:        "structured error",
			output:      `{"status":"error","message":"index is locked"}`,
			wantStatus:  StatusError,
			wantMessage: "index is locked",
		},
		{
			name:    "no object",
			output:  "plain text only",
			wantErr: "no JSON object found",
		},
		{
			name:    "malformed object",
			output:  `{"status": }`,
			wantErr: "failed to decode indexer output",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := parseResult([]byte(tt.output))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, result.Status)
			if tt.wantMessage != "" {
				require.Equal(t, tt.wantMessage, result.Message)
			}
			require.NotEmpty(t, result.Raw)
		})
	}
}

// writeScript creates an executable shell script for subprocess tests.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("subprocess scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-indexer")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func TestRunner_Run_Success(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `echo '{"status":"ok","message":"indexed"}'`)

	r, err := NewRunner(hclog.NewNullLogger(), script)
	require.NoError(t, err)

	result, err := r.Run(t.Context(), "index", "--project", ".")
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Equal(t, "indexed", result.Message)
}

func TestRunner_Run_StructuredErrorIsData(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `echo '{"status":"error","message":"index is locked"}'; exit 2`)

	r, err := NewRunner(hclog.NewNullLogger(), script)
	require.NoError(t, err)

	// Non-zero exit with a parseable error envelope is an application
	// error carried as data, not a transport failure.
	result, err := r.Run(t.Context())
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.Equal(t, "index is locked", result.Message)
}

func TestRunner_Run_ExitCodeDisagreement(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `echo '{"status":"ok"}'; exit 3`)

	r, err := NewRunner(hclog.NewNullLogger(), script)
	require.NoError(t, err)

	// The body claims success but the exit code says otherwise; the exit
	// code wins.
	_, err = r.Run(t.Context())
	require.ErrorContains(t, err, "exited abnormally")
}

func TestRunner_Run_UnparseableOutput(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `echo 'garbage'; echo 'details' >&2; exit 1`)

	r, err := NewRunner(hclog.NewNullLogger(), script)
	require.NoError(t, err)

	_, err = r.Run(t.Context())
	require.ErrorContains(t, err, "indexer command failed")
	require.ErrorContains(t, err, "details")
}

func TestRunner_Run_MissingBinary(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(hclog.NewNullLogger(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)

	_, err = r.Run(t.Context())
	require.Error(t, err)
}
