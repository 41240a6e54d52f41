package config

import "strings"

// LaunchStrategy is one candidate way of starting the server process.
type LaunchStrategy struct {
	// Name identifies the strategy in logs and errors.
	Name string `toml:"name" json:"name"`

	// Command is the executable, resolved through PATH when not absolute.
	Command string `toml:"command" json:"command"`

	// Args precede the token flag on the command line.
	Args []string `toml:"args" json:"args,omitempty"`
}

// Label returns the strategy name, falling back to its command line.
func (s LaunchStrategy) Label() string {
	if s.Name != "" {
		return s.Name
	}

	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

// DefaultStrategies returns the default launch order for the Monday.com
// MCP server: a global install, then npx, then a local node_modules tree.
func DefaultStrategies() []LaunchStrategy {
	return []LaunchStrategy{
		{
			Name:    "global",
			Command: "monday-api-mcp",
		},
		{
			Name:    "npx",
			Command: "npx",
			Args:    []string{"@mondaydotcomorg/monday-api-mcp"},
		},
		{
			Name:    "node_modules",
			Command: "node",
			Args:    []string{"node_modules/@mondaydotcomorg/monday-api-mcp/dist/index.js"},
		},
	}
}
