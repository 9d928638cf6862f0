// Package cmdkey derives the short command-key identifiers used to index
// knowledge graph and workflow records (GLOSSARY "Command-key").
package cmdkey

import "strings"

// multiPart is the fixed set of commands whose key includes their first
// subcommand (§4.5 "Key derivation").
var multiPart = map[string]struct{}{
	"git":    {},
	"docker": {},
	"kubectl": {},
	"npm":    {},
	"dotnet": {},
	"cargo":  {},
	"gh":     {},
	"az":     {},
}

// Of derives the command-key for a tokenized command line: the bare
// command for most tools, or "{command} {first_sub}" for the fixed set
// of multi-part commands.
func Of(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	cmd := tokens[0]
	if _, ok := multiPart[strings.ToLower(cmd)]; ok && len(tokens) > 1 {
		return cmd + " " + tokens[1]
	}
	return cmd
}

// Split tokenizes a raw command line by whitespace. It does not attempt
// shell-style quote handling; the spec's command lines are simple
// whitespace-delimited token sequences.
func Split(line string) []string {
	return strings.Fields(line)
}

// IsNavigation reports whether key names one of the navigation commands
// (GLOSSARY "Navigation command") whose arguments are path-normalized.
func IsNavigation(command string) bool {
	switch strings.ToLower(command) {
	case "cd", "set-location", "sl", "chdir":
		return true
	default:
		return false
	}
}
