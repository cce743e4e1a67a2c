// Package cli provides the shared plumbing for the vecfiles command line.
//
// # Configuration
//
// Contexts are stored kubectl-style in ~/.vecfiles/<app>/config.yaml. Each
// context names an API key (or key file), an optional base URL and the
// request tuning knobs:
//
//	cfg, err := cli.LoadConfig("vecfiles")
//	cfg.AddContext("work", &cli.Context{KeyFile: "~/keys/openai.txt"})
//	cfg.UseContext("work")
//
// # Output
//
// Output renders a value as YAML, JSON, a lipgloss table or raw text, and
// optionally filters it through a jq expression first:
//
//	cli.Output(files, cli.OutputOptions{Format: cli.FormatJSON, Query: ".[].id"})
//
// # Requests
//
// LoadRequest reads YAML, JSON or TOML documents such as sync manifests.
package cli
