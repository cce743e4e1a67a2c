// Package main provides the vecfiles CLI tool.
//
// Usage:
//
//	vecfiles [flags] <group> <command> [args]
//
// Groups:
//
//	file     - Uploaded files
//	store    - Vector stores and their files
//	sync     - Apply a manifest to a vector store
//	journal  - History of sync runs
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.vecfiles/vecfiles/
//	Use 'vecfiles config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/vecfiles/cmd/vecfiles/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
