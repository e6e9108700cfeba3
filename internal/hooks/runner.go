// Package hooks runs user-configured shell commands after successful
// saves.
package hooks

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/logging"
)

// Environment variables exported to hook commands.
const (
	// EnvIni carries the path of the saved INI.
	EnvIni = "CKPECTL_INI"
	// EnvChanged carries the written settings as a comma-separated
	// Section.Key list.
	EnvChanged = "CKPECTL_CHANGED"
)

// DefaultTimeout bounds a single hook command.
const DefaultTimeout = 30 * time.Second

// Context is what a hook command learns about the save through its
// environment.
type Context struct {
	// IniPath is the saved file, exported as CKPECTL_INI.
	IniPath string
	// Changed lists the written settings as Section.Key.
	Changed []string
}

// Result captures one hook run.
type Result struct {
	Command  string
	Output   string
	ExitCode int
	Err      error
}

// Ok reports whether the hook exited cleanly.
func (r *Result) Ok() bool { return r.Err == nil }

// Runner executes post-save hooks sequentially.
type Runner struct {
	// Timeout bounds each command; DefaultTimeout when zero.
	Timeout time.Duration
}

// Run executes each command via sh -c. A failing hook is recorded in
// its Result and does not stop the remaining hooks: the save it follows
// is already on disk, so there is nothing to roll back.
func (r *Runner) Run(ctx context.Context, commands []string, hctx Context) []Result {
	results := make([]Result, 0, len(commands))
	for _, command := range commands {
		res := r.runOne(ctx, command, hctx)
		if res.Ok() {
			logging.Debug("post-save hook finished", "command", command)
		} else {
			logging.Warn("post-save hook failed",
				"command", command,
				"exit_code", res.ExitCode,
				"output", res.Output)
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, command string, hctx Context) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(),
		EnvIni+"="+hctx.IniPath,
		EnvChanged+"="+strings.Join(hctx.Changed, ","),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := strings.TrimSpace(stdout.String())
	if stderr.Len() > 0 {
		stderrStr := strings.TrimSpace(stderr.String())
		if output != "" {
			output = output + "\n" + stderrStr
		} else {
			output = stderrStr
		}
	}

	res := Result{Command: command, Output: output}
	if err != nil {
		exitCode := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		res.ExitCode = exitCode
		res.Err = errors.HookFailed(command, exitCode, output)
	}
	return res
}
