package tools

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexcodex/counsel/framework"
)

// RunTestsTool executes go test in a subprocess and returns the combined
// output together with the exit code, so the agent can read failures instead
// of receiving an opaque error.
type RunTestsTool struct {
	Workspace string
	Timeout   time.Duration
}

func (t *RunTestsTool) Name() string { return "run_tests" }
func (t *RunTestsTool) Description() string {
	return "Run go test for a package path, optionally filtered to a single test, and return the raw output and exit code."
}
func (t *RunTestsTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "path", Type: "string", Default: "./...", Description: "Package path or directory to test"},
		{Name: "run", Type: "string", Description: "Regexp passed to -run to select specific tests"},
		{Name: "verbose", Type: "boolean", Default: false, Description: "Pass -v to go test"},
	}
}

func (t *RunTestsTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	path := argString(args, "path", "./...")
	run := argString(args, "run", "")
	verbose := argBool(args, "verbose", false)

	timeout := t.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := []string{"test", path}
	if run != "" {
		cmdArgs = append(cmdArgs, "-run", run)
	}
	if verbose {
		cmdArgs = append(cmdArgs, "-v")
	}
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = t.Workspace

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return framework.Fail("could not run go test: %v", err)
		}
	}
	log.Debug().Int("exit_code", exitCode).Str("path", path).Msg("go test finished")

	data := map[string]any{
		"output":    output.String(),
		"exit_code": exitCode,
	}
	if exitCode != 0 {
		res := framework.Fail("tests failed with exit code %d", exitCode)
		res.Data = data
		return res
	}
	return framework.Succeed("all tests passed", data)
}
