// Package output renders command results as styled text, plain text, or JSON.
//
// The auto mode picks styled text on a terminal and plain text when the
// output is piped, so scripts get stable, uncolored lines without flags.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Mode selects how results are rendered.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeText  Mode = "text"
	ModePlain Mode = "plain"
	ModeJSON  Mode = "json"
)

// Modes lists every accepted mode name, for flag completion and validation.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModePlain), string(ModeJSON)}
}

// IsValidMode reports whether s names a known mode. The empty string is
// valid and treated as auto.
func IsValidMode(s string) bool {
	switch Mode(s) {
	case "", ModeAuto, ModeText, ModePlain, ModeJSON:
		return true
	}
	return false
}

// Styles groups the lipgloss styles used by text rendering. The zero value
// renders text unmodified, which is what plain and JSON modes use.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Renderer writes command output in one mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer writing results to out and diagnostics to
// errOut. An empty mode means auto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode}
	if r.EffectiveMode() == ModeText && termenv.EnvColorProfile() != termenv.Ascii {
		r.styles = newStyles()
	} else {
		r.styles = &Styles{}
	}
	return r
}

// EffectiveMode resolves ModeAuto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ModeText
	}
	return ModePlain
}

// Styles returns the style set matching the effective mode.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Out returns the result writer, for renderers like go-pretty tables that
// mirror output themselves.
func (r *Renderer) Out() io.Writer {
	return r.out
}

func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Warning writes a styled warning to the diagnostic writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: "+msg))
}

// Errorf writes a styled error line to the diagnostic writer.
func (r *Renderer) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render(fmt.Sprintf(format, a...)))
}

// JSON writes v indented to the result writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
