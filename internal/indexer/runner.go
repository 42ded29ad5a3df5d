// Package indexer invokes the external code-indexing CLI as a subprocess.
// The contract with the CLI is narrow: run with an argument list, read exactly
// one JSON object from its standard output, and map its exit code to
// success or failure.
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scoutmcp/scout/internal/errors"
)

const (
	runnerName = "indexer"

	// DefaultTimeout bounds one CLI invocation.
	DefaultTimeout = 60 * time.Second

	// StatusError is the status value the CLI reports for a structured
	// application error.
	StatusError = "error"
)

// Result is the single JSON object the CLI emits. Status and Message are the
// common envelope; Raw preserves the full object for callers that need
// command-specific fields.
type Result struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Failed reports whether the CLI returned a structured application error.
func (r Result) Failed() bool {
	return r.Status == StatusError
}

// Runner executes the indexing CLI.
// NewRunner should be used to create instances of Runner.
type Runner struct {
	command string
	timeout time.Duration
	logger  hclog.Logger
}

// NewRunner creates a runner for the given CLI binary.
func NewRunner(logger hclog.Logger, command string) (*Runner, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, fmt.Errorf("indexer command cannot be empty")
	}

	return &Runner{
		command: command,
		timeout: DefaultTimeout,
		logger:  logger.Named(runnerName),
	}, nil
}

// Run invokes the CLI with args and parses its output.
//
// A non-zero exit code whose output still parses as {"status":"error",...} is
// a structured application error: it is returned as data with a nil error,
// for callers to inspect via Result.Failed. Only an unreachable binary,
// timeout, or unparseable output is reported as a Go error.
func (r *Runner) Run(ctx context.Context, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running indexer command", "command", r.command, "args", args)

	runErr := cmd.Run()

	result, parseErr := parseResult(stdout.Bytes())
	if parseErr != nil {
		if runErr != nil {
			return Result{}, fmt.Errorf("%w: %w (stderr: %s)", errors.ErrIndexerFailed, runErr, strings.TrimSpace(stderr.String()))
		}
		return Result{}, parseErr
	}

	if runErr != nil && !result.Failed() {
		// Exit code disagrees with the reported status; trust the exit code.
		return Result{}, fmt.Errorf("%w: exited abnormally: %w", errors.ErrIndexerFailed, runErr)
	}

	if result.Failed() {
		r.logger.Warn("Indexer reported an application error", "message", result.Message)
	}

	return result, nil
}

// parseResult extracts the one JSON object the CLI emits on stdout. Anything
// before or after the object (progress lines, warnings) is tolerated.
func parseResult(output []byte) (Result, error) {
	start := bytes.IndexByte(output, '{')
	end := bytes.LastIndexByte(output, '}')
	if start == -1 || end == -1 || end < start {
		return Result{}, fmt.Errorf("no JSON object found in indexer output")
	}

	raw := output[start : end+1]

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("failed to decode indexer output: %w", err)
	}
	result.Raw = json.RawMessage(bytes.Clone(raw))

	return result, nil
}
