package orgdocs

import "context"

// LintRequest carries Terraform source to validate.
type LintRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// Validate returns an error if the request contains invalid fields.
func (r *LintRequest) Validate() error {
	if r.Content == "" {
		return Errorf(EINVALID, "terraform content required")
	}
	return nil
}

// LintResult reports the outcome of a validation run.
type LintResult struct {
	Valid    bool     `json:"valid"`
	Message  string   `json:"message"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// FormatResult reports whether source is canonically formatted.
type FormatResult struct {
	Formatted bool   `json:"formatted"`
	Message   string `json:"message"`
	Output    string `json:"output"`
}

// ToolStatus reports availability of the Terraform toolchain.
type ToolStatus struct {
	AvailableTools map[string]bool `json:"available_tools"`
	PrimaryTool    string          `json:"primary_tool"`
}

// Linter validates Terraform source by invoking external tools. It
// checks syntax and style only; Terraform semantics are out of scope.
type Linter interface {
	// Validate lints the source, preferring tflint and falling back
	// to terraform validate. Returns ETIMEOUT if the tool run exceeds
	// its deadline.
	Validate(ctx context.Context, req LintRequest) (*LintResult, error)

	// CheckSyntax runs a canonical-format check on the source.
	CheckSyntax(ctx context.Context, req LintRequest) (*FormatResult, error)

	// Status reports which tools are installed and which one Validate
	// would use.
	Status(ctx context.Context) (*ToolStatus, error)
}
