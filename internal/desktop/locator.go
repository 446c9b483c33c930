package desktop

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/f-is-h/mcp-easy-copy/internal/logging"
	"github.com/f-is-h/mcp-easy-copy/internal/platform"
)

// ConfigFileName is the desktop application's configuration file.
const ConfigFileName = "claude_desktop_config.json"

// OverrideEnv names a desktop config file searched before every other candidate.
const OverrideEnv = "MCP_EASY_COPY_DESKTOP_CONFIG"

// Candidate is one plausible location of the desktop config file.
type Candidate struct {
	Path string
	// Platform is the OS convention the path belongs to, empty for
	// user-supplied locations.
	Platform platform.Platform
}

// Paths is an ordered, immutable list of candidates. The first existing
// candidate wins.
type Paths struct {
	candidates []Candidate
}

// NewPaths builds Paths from candidates, dropping empty and duplicate paths.
func NewPaths(candidates ...Candidate) Paths {
	out := make([]Candidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Path == "" {
			continue
		}
		c.Path = filepath.Clean(c.Path)
		if seen[c.Path] {
			continue
		}
		seen[c.Path] = true
		out = append(out, c)
	}
	return Paths{candidates: out}
}

// DefaultCandidates returns the per-OS locations under home, in priority
// order: macOS, Linux, Windows.
func DefaultCandidates(home string) []Candidate {
	return []Candidate{
		{Path: filepath.Join(home, "Library", "Application Support", "Claude", ConfigFileName), Platform: platform.PlatformMacOS},
		{Path: filepath.Join(home, ".config", "Claude", ConfigFileName), Platform: platform.PlatformLinux},
		{Path: filepath.Join(home, "AppData", "Roaming", "Claude", ConfigFileName), Platform: platform.PlatformWindows},
	}
}

// DefaultPaths returns the three per-OS candidates under home.
func DefaultPaths(home string) Paths {
	return NewPaths(DefaultCandidates(home)...)
}

// Resolve builds the process-wide candidate list: the OverrideEnv file, then
// extra (user configured) paths, then the per-OS defaults under home. An
// empty home skips the defaults.
func Resolve(home string, extra []string) Paths {
	var cs []Candidate
	if env := os.Getenv(OverrideEnv); env != "" {
		cs = append(cs, Candidate{Path: env})
	}
	for _, p := range extra {
		cs = append(cs, Candidate{Path: p})
	}
	if home != "" {
		cs = append(cs, DefaultCandidates(home)...)
	}
	return NewPaths(cs...)
}

// Candidates returns a copy of the candidate list.
func (p Paths) Candidates() []Candidate {
	return slices.Clone(p.candidates)
}

// Files returns the candidate paths in order.
func (p Paths) Files() []string {
	files := make([]string, len(p.candidates))
	for i, c := range p.candidates {
		files[i] = c.Path
	}
	return files
}

// Len returns the number of candidates.
func (p Paths) Len() int {
	return len(p.candidates)
}

// Locate returns the first candidate that exists. A failed existence check
// is not an error, it just moves on to the next candidate.
func (p Paths) Locate() (string, bool) {
	log := logging.ForComponent(logging.CompDesktop)
	for _, c := range p.candidates {
		if _, err := os.Stat(c.Path); err != nil {
			log.Debug("config_candidate_missing", slog.String("path", c.Path), slog.String("error", err.Error()))
			continue
		}
		log.Debug("config_found", slog.String("path", c.Path))
		return c.Path, true
	}
	return "", false
}
