package desktop

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/buger/jsonparser"

	"github.com/f-is-h/mcp-easy-copy/internal/logging"
)

// ServersKey is the top-level field whose keys are the service names.
const ServersKey = "mcpServers"

// ErrMalformed is wrapped by parse failures of the desktop config.
var ErrMalformed = errors.New("malformed configuration")

// Status classifies the outcome of reading the desktop config.
type Status int

const (
	// StatusNotFound means no candidate file exists.
	StatusNotFound Status = iota
	// StatusUnreadable means a file exists but could not be read or parsed.
	StatusUnreadable
	// StatusOK means the file parsed; Services may still be empty.
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not_found"
	case StatusUnreadable:
		return "unreadable"
	case StatusOK:
		return "ok"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Snapshot is the result of one locate-and-read cycle.
type Snapshot struct {
	Status   Status
	Path     string   // located file, empty when not found
	Services []string // never nil
	Err      error    // set when Status is StatusUnreadable
}

// Inspect locates the desktop config and reads the service names from it.
// Nothing is cached; every call hits the filesystem.
func (p Paths) Inspect() Snapshot {
	path, ok := p.Locate()
	if !ok {
		return Snapshot{Status: StatusNotFound, Services: []string{}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return unreadable(path, fmt.Errorf("read %s: %w", path, err))
	}

	names, err := ServiceNames(data)
	if err != nil {
		return unreadable(path, fmt.Errorf("parse %s: %w", path, err))
	}
	return Snapshot{Status: StatusOK, Path: path, Services: names}
}

func unreadable(path string, err error) Snapshot {
	logging.ForComponent(logging.CompDesktop).Warn("config_unreadable",
		slog.String("path", path), slog.String("error", err.Error()))
	return Snapshot{Status: StatusUnreadable, Path: path, Services: []string{}, Err: err}
}

// ListServices returns the configured service names in document order. Every
// failure maps to an empty slice.
func (p Paths) ListServices() []string {
	return p.Inspect().Services
}

// ServiceNames returns the keys of the top-level mcpServers object of a JSON
// document, in document order. A missing field, or one that is not an
// object, yields an empty slice. Invalid JSON is an error wrapping
// ErrMalformed. Duplicate keys are reported once at their first position.
func ServiceNames(data []byte) ([]string, error) {
	if !json.Valid(data) {
		return nil, ErrMalformed
	}
	names := []string{}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return names, nil
	}

	servers, typ, _, err := jsonparser.Get(trimmed, ServersKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || (err == nil && typ != jsonparser.Object) {
		return names, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	seen := make(map[string]bool)
	err = jsonparser.ObjectEach(servers, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		name := string(key)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return names, nil
}
