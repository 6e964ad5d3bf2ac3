// Package terminal renders poll results to a terminal.
//
// A [Display] is a rendering surface for the watch command: each Replace
// redraws the whole list. Entries are written as plain text; control
// characters are neutralised so a feed cannot drive the terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const defaultTitle = "Repository Events"

// Option configures a [Display].
type Option func(*Display)

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(d *Display) {
		if title != "" {
			d.title = title
		}
	}
}

// WithListLayout prefixes each entry with a bullet, mirroring a list
// container.
func WithListLayout(list bool) Option {
	return func(d *Display) {
		d.list = list
	}
}

// WithClearScreen clears the terminal before every redraw.
func WithClearScreen(clear bool) Option {
	return func(d *Display) {
		d.clear = clear
	}
}

// WithProfile forces a colour profile instead of detecting it from the
// writer. termenv.Ascii disables styling entirely.
func WithProfile(p termenv.Profile) Option {
	return func(d *Display) {
		d.profile = &p
	}
}

// Display writes entries to a terminal.
type Display struct {
	title   string
	list    bool
	clear   bool
	profile *termenv.Profile
	now     func() time.Time

	mu     sync.Mutex
	out    *termenv.Output
	header lipgloss.Style
	meta   lipgloss.Style
	bullet lipgloss.Style
}

// New creates a [Display] writing to w.
func New(w io.Writer, opts ...Option) *Display {
	d := &Display{
		title: defaultTitle,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	var outOpts []termenv.OutputOption
	if d.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*d.profile))
	}
	d.out = termenv.NewOutput(w, outOpts...)

	r := lipgloss.NewRenderer(w, outOpts...)
	if d.profile != nil {
		r.SetColorProfile(*d.profile)
	}
	d.header = r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	d.meta = r.NewStyle().Faint(true)
	d.bullet = r.NewStyle().Foreground(lipgloss.Color("10"))

	return d
}

// Replace clears the previous output and prints entries in order.
func (d *Display) Replace(entries []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.clear {
		d.out.ClearScreen()
	}

	var b strings.Builder
	b.WriteString(d.header.Render(d.title))
	b.WriteString("\n")
	b.WriteString(d.meta.Render(fmt.Sprintf("%d %s · updated %s",
		len(entries), plural(len(entries)), d.now().UTC().Format("15:04:05 UTC"))))
	b.WriteString("\n\n")

	for _, e := range entries {
		if d.list {
			b.WriteString(d.bullet.Render("•"))
			b.WriteString(" ")
		}
		b.WriteString(sanitize(e))
		b.WriteString("\n")
	}

	_, err := io.WriteString(d.out, b.String())
	return err
}

func plural(n int) string {
	if n == 1 {
		return "event"
	}
	return "events"
}

// sanitize replaces control characters, including ESC, with spaces.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
