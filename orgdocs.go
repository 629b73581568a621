// Package orgdocs extracts example-focused documentation from the
// repositories of a GitHub organization. It lists an organization's
// repositories, fetches each README, reduces it to a cleaned extract,
// and persists original/cleaned pairs plus a run summary to disk. A
// small JSON API additionally proxies cloud pricing lookups and
// Terraform validation tooling.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency or role
// (e.g., github/, fs/, infracost/, tflint/).
package orgdocs
