package tui

import "github.com/charmbracelet/lipgloss"

// OutputFormat controls how Render serializes the record table.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits an aligned plain-text table.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures formatting hints the renderer applies to messages it hands
// to the prompt driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	Status      lipgloss.Style
	Error       lipgloss.Style
	Heading     lipgloss.Style
}

// DefaultTheme colours status banners green, errors red, and headings bold.
// Styles degrade to plain text when the output is not a terminal.
func DefaultTheme() Theme {
	return Theme{
		ErrorPrefix: "! ",
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Heading:     lipgloss.NewStyle().Bold(true),
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization format used by Render.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes and styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
