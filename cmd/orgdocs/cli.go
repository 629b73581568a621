package main

import (
	"context"
	"io"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetch FetchCmd `cmd:"" help:"Fetch and clean READMEs from a GitHub organization"`
	Serve ServeCmd `cmd:"" help:"Serve pricing and Terraform validation over HTTP"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Org             string  `arg:"" default:"terraform-aws-modules" help:"GitHub organization to fetch from"`
	Output          string  `short:"o" default:"downloads" help:"Directory to store extraction runs"`
	Concurrency     int     `short:"c" default:"5" help:"Concurrent fetch limit"`
	RequestsPerSec  float64 `name:"rps" default:"5" help:"GitHub API request rate limit"`
	IncludeArchived bool    `help:"Also process archived repositories"`
	Verbose         bool    `short:"v" help:"Log API calls"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8000" help:"HTTP listen address"`
}
