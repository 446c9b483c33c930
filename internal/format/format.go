// Package format renders service name lists as text for MCP clients.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Header           = "📋 AVAILABLE MCP SERVICES:"
	EmptyMessage     = "No MCP services configured."
	NotFoundMessage  = "Error: Claude Desktop configuration file not found."
	FallbackToolDesc = "List all MCP services available in this Claude instance"

	usage = "\n\nCopy a service name to use in prompts like:\n" +
		"• Can you use [service name] to...\n" +
		"• Please call [service name] to..."

	separator = " │ "
)

// Bulleted renders services as a dash list, used by the resource endpoint.
func Bulleted(services []string) string {
	return list(services, func(int) string { return "- " })
}

// Numbered renders services as a 1-based numbered list, used by the tool.
func Numbered(services []string) string {
	return list(services, func(i int) string { return strconv.Itoa(i+1) + ". " })
}

func list(services []string, marker func(int) string) string {
	if len(services) == 0 {
		return EmptyMessage
	}
	var b strings.Builder
	b.WriteString(Header)
	for i, name := range services {
		b.WriteByte('\n')
		b.WriteString(marker(i))
		b.WriteString(name)
	}
	b.WriteString(usage)
	return b.String()
}

// Inline renders services on a single line, e.g. "│ a │ b │".
// Newlines do not survive in tool descriptions. Empty input yields "".
func Inline(services []string) string {
	if len(services) == 0 {
		return ""
	}
	return "│ " + strings.Join(services, separator) + " │"
}

// Description is the tool description advertised at startup.
func Description(services []string) string {
	if len(services) == 0 {
		return FallbackToolDesc
	}
	return Inline(services)
}

// ReadError is the resource text for an unreadable desktop config.
func ReadError(err error) string {
	return fmt.Sprintf("Error reading MCP configuration: %v", err)
}
