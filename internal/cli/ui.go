package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dhcpdash/pkg/dhcpopt"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // headings, cursor
	colorGreen = lipgloss.Color("35")  // finished work
	colorAmber = lipgloss.Color("220") // invalid option values
	colorRed   = lipgloss.Color("167") // failed commands
	colorMuted = lipgloss.Color("245") // option codes, paths
	colorDim   = lipgloss.Color("240") // key help
)

var (
	// StyleTitle renders the tree browser title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleWarning renders status lines and option problems.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleDone     = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleCode     = lipgloss.NewStyle().Foreground(colorMuted).Width(10).Align(lipgloss.Right)
	styleUniverse = lipgloss.NewStyle().Foreground(colorDim)
	stylePath     = lipgloss.NewStyle().Foreground(colorMuted).Underline(true)
)

// =============================================================================
// Command Output
// =============================================================================

// printDone reports a finished command, e.g. "✓ Serialized 3 options".
func printDone(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleDone.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// printWritten names the file a command wrote to.
func printWritten(w io.Writer, path string) {
	fmt.Fprintln(w, "  → "+stylePath.Render(path))
}

// printListening announces the preview API address.
func printListening(w io.Writer, addr string) {
	fmt.Fprintln(w, styleDone.Render("›")+" preview API on "+stylePath.Render("http://"+addr))
}

// printOptionName prints the standard name of a decoded option code:
//
//	  option 6  Domain Name Server (v4)
func printOptionName(w io.Writer, universe dhcpopt.Universe, code int, name string) {
	label := styleCode.Render("option " + strconv.Itoa(code))
	fmt.Fprintln(w, label+"  "+name+" "+styleUniverse.Render(fmt.Sprintf("(v%d)", universe)))
}

// printProblem prints a value that failed validation, keyed by its form path.
func printProblem(w io.Writer, p form.ValidationError) {
	path := p.Path
	if path == "" {
		path = "(root)"
	}
	fmt.Fprintln(w, StyleWarning.Render("! "+path)+"  "+p.Err.Error())
}

// PrintError reports a failed command with its user-facing message and,
// for coded errors, the code.
func PrintError(w io.Writer, err error) {
	msg := styleFailed.Render("✗") + " " + errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg += " " + styleUniverse.Render("["+string(code)+"]")
	}
	fmt.Fprintln(w, msg)
}
