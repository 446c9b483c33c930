// Package server implements the Model Context Protocol (MCP) server that
// lists the MCP services configured in the Claude Desktop application.
//
// Two endpoints are exposed:
//   - resource "mcp-services://list" returns a bulleted list, or an error
//     string when the desktop config is missing or unreadable.
//   - tool "_________available_mcp_services_for_easy_copy_________" takes no
//     arguments and returns a numbered list. Its description is the service
//     list captured at startup; the result is always read fresh.
//
// The server is read-only: it never writes to the desktop configuration.
package server
