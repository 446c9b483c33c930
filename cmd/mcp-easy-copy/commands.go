package main

import (
	"fmt"
	"io"
	"os"

	"github.com/f-is-h/mcp-easy-copy/internal/config"
	"github.com/f-is-h/mcp-easy-copy/internal/desktop"
	"github.com/f-is-h/mcp-easy-copy/internal/format"
	"github.com/f-is-h/mcp-easy-copy/internal/platform"
)

// handlePaths prints every candidate in priority order, marks the one that
// wins, and lists the services it contains.
func handlePaths(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(stderr, "Error: paths takes no arguments\n")
		return exitUsage
	}

	cfg, cfgErr := loadUserConfig()
	if cfgErr != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", cfgErr)
	}
	paths, err := resolvePaths(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	current := platform.Detect()
	fmt.Fprintf(stdout, "Platform: %s\n\n", current)
	fmt.Fprintln(stdout, "Candidates (first existing wins):")

	winner, found := paths.Locate()
	for i, c := range paths.Candidates() {
		mark := " "
		if found && c.Path == winner {
			mark = "*"
		}
		state := "missing"
		if _, err := os.Stat(c.Path); err == nil {
			state = "exists"
		}
		label := "custom"
		if c.Platform != "" {
			label = c.Platform.String()
			if c.Platform == current.Family() {
				label += ", this platform"
			}
		}
		fmt.Fprintf(stdout, "%s %d. %s (%s, %s)\n", mark, i+1, c.Path, label, state)
	}
	fmt.Fprintln(stdout)

	snap := paths.Inspect()
	switch snap.Status {
	case desktop.StatusNotFound:
		fmt.Fprintln(stdout, format.NotFoundMessage)
	case desktop.StatusUnreadable:
		fmt.Fprintln(stdout, format.ReadError(snap.Err))
		return exitError
	default:
		fmt.Fprintln(stdout, format.Numbered(snap.Services))
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Tool description: %s\n", format.Description(snap.Services))
	}
	return exitOK
}

// handleInitConfig writes an example config.toml, never overwriting.
func handleInitConfig(stdout, stderr io.Writer) int {
	path, written, err := config.CreateExampleConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if !written {
		fmt.Fprintf(stdout, "Config already exists: %s\n", path)
		return exitOK
	}
	fmt.Fprintf(stdout, "Wrote example config: %s\n", path)
	return exitOK
}
