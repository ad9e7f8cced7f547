package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console prints scan progress and findings as plain lines.
type Console struct {
	w io.Writer

	info  *color.Color
	found *color.Color
	warn  *color.Color
	miss  *color.Color
}

// NewConsole writes to w. Colours follow color.NoColor, which is set when
// stdout is not a terminal.
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:     w,
		info:  color.New(color.FgCyan),
		found: color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow),
		miss:  color.New(color.FgHiBlack),
	}
}

// DisableColor turns colours off for this console only.
func (c *Console) DisableColor() {
	for _, col := range []*color.Color{c.info, c.found, c.warn, c.miss} {
		col.DisableColor()
	}
}

func (c *Console) Analyzing(n int) {
	c.info.Fprintf(c.w, "[+] Analyzing %d subdomains...\n", n)
	fmt.Fprintln(c.w)
}

func (c *Console) Found(url string) {
	c.found.Fprintf(c.w, "[!] Sensitive file found: %s\n", url)
}

func (c *Console) TooMany(host string, count int) {
	c.warn.Fprintf(c.w, "[~] Too many files found on %s (%d), skipped.\n", host, count)
}

func (c *Console) NoneFound() {
	c.miss.Fprintln(c.w, "[-] No sensitive file detected.")
}

func (c *Console) FileNotFound(path string) {
	c.miss.Fprintf(c.w, "[-] File not found: %s\n", path)
}
