package output

import (
	"io"
	"os"
	"sync/atomic"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

var (
	colorRole   = lipgloss.Color("#cba6f7")
	colorHeader = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorBorder = lipgloss.Color("#45475a")
)

var noColor atomic.Bool

// DisableColor strips ANSI styling from all output written by this package.
func DisableColor() {
	noColor.Store(true)
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// ColorDisabled reports whether DisableColor has been called.
func ColorDisabled() bool {
	return noColor.Load()
}

// newWriter wraps w so styled text is downsampled to what w supports.
// Writers that are not terminals receive plain text.
func newWriter(w io.Writer) *colorprofile.Writer {
	cw := colorprofile.NewWriter(w, os.Environ())
	if noColor.Load() {
		cw.Profile = colorprofile.Ascii
	}
	return cw
}
