package seeding

import "os"

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Jury Demo Seeding Tool
======================

Generates demo projects, judges, criteria and scores against a running
jury service.

Usage:
  go run cmd/seed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8090")
  -projects int
        Number of projects to generate (default 25)
  -judges int
        Number of judges to generate (default 8)
  -ratio float
        Fraction of visible (judge, project) pairs to score (default 0.7)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed/main.go

  # Larger event against a remote host
  go run cmd/seed/main.go -projects 200 -judges 30 -url http://jury.internal:8090
`)
}
