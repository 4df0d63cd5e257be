package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ErrNoInput is returned by Confirm when the printer has no reader.
var ErrNoInput = errors.New("no input available for confirmation")

const columnGap = "  "

// Printer writes human-oriented console output: status lines with an
// icon, tables and y/N prompts.
type Printer struct {
	writer io.Writer
	reader *bufio.Reader
	styles Styles
}

// Styles holds lipgloss styles for console output
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Column  lipgloss.Style
	Subtle  lipgloss.Style
}

// DefaultStyles uses the 16-colour palette so output follows the
// terminal theme.
func DefaultStyles() Styles {
	bold := lipgloss.NewStyle().Bold(true)
	return Styles{
		Success: bold.Foreground(lipgloss.Color("10")),
		Error:   bold.Foreground(lipgloss.Color("9")),
		Warning: bold.Foreground(lipgloss.Color("11")),
		Info:    bold.Foreground(lipgloss.Color("12")),
		Header:  bold.Foreground(lipgloss.Color("14")).Underline(true),
		Column:  bold,
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// NewPrinter creates a console printer. reader answers prompts and may
// be nil when nothing will be asked.
func NewPrinter(writer io.Writer, reader io.Reader) *Printer {
	p := &Printer{writer: writer, styles: DefaultStyles()}
	if reader != nil {
		p.reader = bufio.NewReader(reader)
	}
	return p
}

// DefaultPrinter returns a printer on stdout that prompts on stdin
func DefaultPrinter() *Printer {
	return NewPrinter(os.Stdout, os.Stdin)
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	if icon != "" {
		msg = icon + " " + msg
	}
	fmt.Fprintln(p.writer, style.Render(msg))
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.styles.Success, "✓", format, args)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.styles.Error, "✗", format, args)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.styles.Warning, "⚠", format, args)
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.styles.Info, "ℹ", format, args)
}

func (p *Printer) Header(format string, args ...interface{}) {
	p.line(p.styles.Header, "", format, args)
}

func (p *Printer) Subtle(format string, args ...interface{}) {
	p.line(p.styles.Subtle, "", format, args)
}

// Println prints an unstyled line
func (p *Printer) Println(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format+"\n", args...)
}

// Confirm asks a y/N question. Anything but y or yes, including EOF,
// is a no.
func (p *Printer) Confirm(format string, args ...interface{}) (bool, error) {
	if p.reader == nil {
		return false, ErrNoInput
	}
	fmt.Fprint(p.writer, p.styles.Warning.Render(fmt.Sprintf(format, args...))+" [y/N] ")

	answer, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Table prints rows aligned by display width, so cells holding markers
// such as ✓ or wide runes line up. Missing cells print blank.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], ansi.StringWidth(row[i]))
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = p.styles.Column.Render(padRight(h, widths[i]))
	}
	fmt.Fprintln(p.writer, strings.Join(cells, columnGap))

	for i, w := range widths {
		cells[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(p.writer, p.styles.Subtle.Render(strings.Join(cells, columnGap)))

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padRight(cell, widths[i])
		}
		fmt.Fprintln(p.writer, strings.TrimRight(strings.Join(cells, columnGap), " "))
	}
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
