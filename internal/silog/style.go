package silog

import "github.com/charmbracelet/lipgloss"

// Style controls how a [Logger] renders its output.
//
// Use [DefaultStyle] for colored, human-friendly output on a terminal,
// or [PlainStyle] for output with no ANSI escapes (e.g. when writing to
// a file or pipe).
type Style struct {
	// LevelLabels holds the rendered label for each log level,
	// e.g. "DBG", "INF", "WRN", "ERR", "FTL".
	LevelLabels ByLevel[lipgloss.Style]

	// Messages holds the style applied to the log message text
	// for each log level.
	Messages ByLevel[lipgloss.Style]

	// Key is the style applied to attribute keys.
	Key lipgloss.Style

	// Values holds per-key styles for attribute values.
	// Keys not present here are rendered unstyled.
	Values map[string]lipgloss.Style

	// KeyValueDelimiter separates an attribute key from its value.
	KeyValueDelimiter lipgloss.Style

	// PrefixDelimiter separates a logger's prefix from its message.
	PrefixDelimiter lipgloss.Style

	// MultilinePrefix is rendered before each line of a multi-line
	// attribute value.
	MultilinePrefix lipgloss.Style
}

func label(s string) lipgloss.Style {
	return lipgloss.NewStyle().SetString(s)
}

// DefaultStyle returns the style used for terminal output:
// colored level labels and dimmed structural punctuation.
func DefaultStyle() *Style {
	return &Style{
		LevelLabels: ByLevel[lipgloss.Style]{
			Debug: label("DBG").Foreground(lipgloss.Color("8")),
			Info:  label("INF").Foreground(lipgloss.Color("4")),
			Warn:  label("WRN").Foreground(lipgloss.Color("3")),
			Error: label("ERR").Foreground(lipgloss.Color("1")),
			Fatal: label("FTL").Foreground(lipgloss.Color("5")),
		},
		Messages: ByLevel[lipgloss.Style]{
			Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Info:  lipgloss.NewStyle(),
			Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			Fatal: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		},
		Key:               lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Values:            make(map[string]lipgloss.Style),
		KeyValueDelimiter: label("=").Foreground(lipgloss.Color("8")),
		PrefixDelimiter:   label(": ").Foreground(lipgloss.Color("8")),
		MultilinePrefix:   label("| ").Foreground(lipgloss.Color("8")),
	}
}

// PlainStyle returns the style used for non-terminal output:
// no colors, only the structural punctuation needed for readability.
func PlainStyle() *Style {
	return &Style{
		LevelLabels: ByLevel[lipgloss.Style]{
			Debug: label("DBG"),
			Info:  label("INF"),
			Warn:  label("WRN"),
			Error: label("ERR"),
			Fatal: label("FTL"),
		},
		Messages: ByLevel[lipgloss.Style]{
			Debug: lipgloss.NewStyle(),
			Info:  lipgloss.NewStyle(),
			Warn:  lipgloss.NewStyle(),
			Error: lipgloss.NewStyle(),
			Fatal: lipgloss.NewStyle(),
		},
		Key:               lipgloss.NewStyle(),
		Values:            make(map[string]lipgloss.Style),
		KeyValueDelimiter: label("="),
		PrefixDelimiter:   label(": "),
		MultilinePrefix:   label("| "),
	}
}
