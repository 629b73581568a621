// Package tflint validates Terraform source by shelling out to the
// locally installed toolchain: tflint when present, terraform as a
// fallback.
package tflint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/orgdocs"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 10 * time.Second

// DefaultFilename is used when a request does not name its file.
const DefaultFilename = "main.tf"

// runResult is the captured outcome of one tool invocation.
type runResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runFunc executes a command in dir and captures its output. It is a
// field on Linter so tests can substitute a fake toolchain.
type runFunc func(ctx context.Context, dir, name string, args ...string) (*runResult, error)

// lookFunc reports whether a tool is installed.
type lookFunc func(name string) bool

// Ensure Linter implements orgdocs.Linter at compile time.
var _ orgdocs.Linter = (*Linter)(nil)

// Linter validates Terraform source with external tools.
type Linter struct {
	timeout time.Duration
	run     runFunc
	look    lookFunc
}

// Option configures a Linter.
type Option func(*Linter)

// WithTimeout bounds each tool invocation. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Linter) {
		l.timeout = d
	}
}

// NewLinter creates a Linter using the tools on PATH.
func NewLinter(opts ...Option) *Linter {
	l := &Linter{
		timeout: DefaultTimeout,
		run:     runCommand,
		look: func(name string) bool {
			_, err := exec.LookPath(name)
			return err == nil
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// runCommand executes a command with captured stdout/stderr. A
// non-zero exit is not an error here; the exit code is part of the
// result. Only failures to start the process (or a killed deadline)
// surface as errors.
func runCommand(ctx context.Context, dir, name string, args ...string) (*runResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &runResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

// writeWorkspace materializes the request's source in a temp directory
// so directory-oriented tools can run against it.
func (l *Linter) writeWorkspace(req orgdocs.LintRequest) (dir, file string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "tflint-*")
	if err != nil {
		return "", "", nil, err
	}
	cleanup = func() { os.RemoveAll(dir) }

	name := filepath.Base(req.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultFilename
	}
	file = filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(req.Content), 0644); err != nil {
		cleanup()
		return "", "", nil, err
	}
	return dir, file, cleanup, nil
}

// Validate lints the request's source, preferring tflint and falling
// back to terraform validate.
func (l *Linter) Validate(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.LintResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dir, _, cleanup, err := l.writeWorkspace(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	switch {
	case l.look("tflint"):
		return l.runTflint(ctx, dir)
	case l.look("terraform"):
		return l.runTerraformValidate(ctx, dir)
	default:
		return nil, orgdocs.Errorf(orgdocs.EUNSUPPORTED, "neither tflint nor terraform is installed")
	}
}

func (l *Linter) runTflint(ctx context.Context, dir string) (*orgdocs.LintResult, error) {
	result, err := l.run(ctx, dir, "tflint", "--format", "compact", "--chdir", dir)
	if err != nil {
		return nil, classifyRunError(ctx, err)
	}

	if result.ExitCode == 0 {
		return &orgdocs.LintResult{
			Valid:   true,
			Message: "Terraform code is valid",
			Errors:  []string{},
		}, nil
	}

	return &orgdocs.LintResult{
		Valid:   false,
		Message: "Terraform linting failed",
		Errors:  outputLines(result),
	}, nil
}

// terraformDiagnostics matches terraform validate -json output.
type terraformDiagnostics struct {
	Valid       bool `json:"valid"`
	Diagnostics []struct {
		Severity string `json:"severity"`
		Summary  string `json:"summary"`
		Detail   string `json:"detail"`
	} `json:"diagnostics"`
}

func (l *Linter) runTerraformValidate(ctx context.Context, dir string) (*orgdocs.LintResult, error) {
	result, err := l.run(ctx, dir, "terraform", "validate", "-json", "-no-color")
	if err != nil {
		return nil, classifyRunError(ctx, err)
	}

	var diags terraformDiagnostics
	if err := json.Unmarshal([]byte(result.Stdout), &diags); err != nil {
		// Older terraform or a hard failure without JSON output.
		if result.ExitCode == 0 {
			return &orgdocs.LintResult{
				Valid:   true,
				Message: "Terraform code is valid",
				Errors:  []string{},
			}, nil
		}
		return &orgdocs.LintResult{
			Valid:   false,
			Message: "Terraform linting failed",
			Errors:  outputLines(result),
		}, nil
	}

	lintResult := &orgdocs.LintResult{
		Valid:  diags.Valid,
		Errors: []string{},
	}
	for _, d := range diags.Diagnostics {
		line := d.Summary
		if d.Detail != "" {
			line += ": " + d.Detail
		}
		if d.Severity == "warning" {
			lintResult.Warnings = append(lintResult.Warnings, line)
		} else {
			lintResult.Errors = append(lintResult.Errors, line)
		}
	}
	if lintResult.Valid {
		lintResult.Message = "Terraform code is valid"
	} else {
		lintResult.Message = "Terraform linting failed"
	}
	return lintResult, nil
}

// CheckSyntax runs terraform fmt -check against the request's source.
func (l *Linter) CheckSyntax(ctx context.Context, req orgdocs.LintRequest) (*orgdocs.FormatResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !l.look("terraform") {
		return nil, orgdocs.Errorf(orgdocs.EUNSUPPORTED, "terraform is not installed")
	}

	dir, file, cleanup, err := l.writeWorkspace(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	result, err := l.run(ctx, dir, "terraform", "fmt", "-check", "-no-color", file)
	if err != nil {
		return nil, classifyRunError(ctx, err)
	}

	formatted := result.ExitCode == 0
	message := "Code is properly formatted"
	if !formatted {
		message = "Code needs formatting"
	}

	output := result.Stdout
	if output == "" {
		output = result.Stderr
	}

	return &orgdocs.FormatResult{
		Formatted: formatted,
		Message:   message,
		Output:    strings.TrimSpace(output),
	}, nil
}

// Status reports which tools are installed and which one Validate
// would use.
func (l *Linter) Status(ctx context.Context) (*orgdocs.ToolStatus, error) {
	available := map[string]bool{
		"terraform": l.look("terraform"),
		"tflint":    l.look("tflint"),
	}

	primary := "none"
	switch {
	case available["tflint"]:
		primary = "tflint"
	case available["terraform"]:
		primary = "terraform"
	}

	return &orgdocs.ToolStatus{
		AvailableTools: available,
		PrimaryTool:    primary,
	}, nil
}

// classifyRunError maps a failed tool invocation to an application
// error. A deadline hit becomes ETIMEOUT.
func classifyRunError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return orgdocs.Errorf(orgdocs.ETIMEOUT, "validation timeout")
	}
	return orgdocs.Errorf(orgdocs.EINTERNAL, "running validation tool: %v", err)
}

// outputLines splits whichever stream the tool wrote to into
// non-empty lines.
func outputLines(result *runResult) []string {
	raw := result.Stdout
	if strings.TrimSpace(raw) == "" {
		raw = result.Stderr
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if lines == nil {
		lines = []string{}
	}
	return lines
}
