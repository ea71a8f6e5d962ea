package module

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/internal/logging"
)

// execCommandContext is injectable for testing.
var execCommandContext = exec.CommandContext

// Compiler runs osis2mod.
type Compiler struct {
	// Binary is the osis2mod executable name or path.
	Binary string
	// Timeout bounds one run. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// CompileResult describes a finished osis2mod run.
type CompileResult struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// NewCompiler creates a Compiler.
func NewCompiler(binary string, timeout time.Duration) *Compiler {
	return &Compiler{Binary: binary, Timeout: timeout}
}

// Compile runs `osis2mod <moduleDir> <osisPath> -z`. A non-zero exit code,
// a missing binary or a cancelled context yield an *errors.ToolError
// carrying the combined output.
func (c *Compiler) Compile(ctx context.Context, moduleDir, osisPath string) (*CompileResult, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := []string{moduleDir, osisPath, "-z"}
	cmd := execCommandContext(ctx, c.Binary, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	runErr := cmd.Run()
	result := &CompileResult{
		Output:   strings.TrimSpace(output.String()),
		Duration: time.Since(start),
	}

	if runErr != nil {
		toolErr := &errors.ToolError{Tool: c.Binary, ExitCode: -1, Output: result.Output}
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			toolErr.Err = ctx.Err()
		case errors.As(runErr, &exitErr):
			toolErr.ExitCode = exitErr.ExitCode()
		default:
			toolErr.Err = runErr
		}
		result.ExitCode = toolErr.ExitCode
		logging.ToolRun(ctx, c.Binary, args, "exit_code", result.ExitCode, "duration_ms", result.Duration.Milliseconds())
		return result, toolErr
	}

	logging.ToolRun(ctx, c.Binary, args, "exit_code", 0, "duration_ms", result.Duration.Milliseconds())
	if result.Output != "" {
		logging.DebugContext(ctx, "osis2mod_output", "output", result.Output)
	}
	return result, nil
}
