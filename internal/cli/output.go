package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// Printer writes tables and operator notices to the terminal. Notices go to
// the error stream so tables and CSV on stdout stay clean for pipes.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter colours output unless NO_COLOR is set or the terminal is dumb.
func NewPrinter(out, errOut io.Writer, noColor bool) *Printer {
	use := !noColor
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		use = false
	}
	if os.Getenv("TERM") == "dumb" {
		use = false
	}
	return &Printer{out: out, err: errOut, useColors: use}
}

// Notify satisfies ports.Notifier.
func (p *Printer) Notify(n domain.Notice) {
	if n.IsZero() {
		return
	}
	var (
		attr   color.Attribute
		prefix string
	)
	switch n.Level {
	case domain.NoticeSuccess:
		attr, prefix = color.FgGreen, "[OK]"
	case domain.NoticeWarn:
		attr, prefix = color.FgYellow, "[WARN]"
	case domain.NoticeError:
		attr, prefix = color.FgRed, "[ERROR]"
	default:
		attr, prefix = color.FgCyan, "[INFO]"
	}
	if p.useColors {
		color.New(attr).Fprintf(p.err, "%s %s\n", prefix, n.Text)
		return
	}
	fmt.Fprintf(p.err, "%s %s\n", prefix, n.Text)
}

// Print writes a plain line to stdout.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a bold section title.
func (p *Printer) Header(title string) {
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "%s\n", title)
}

// Table renders rows under headers without borders.
func (p *Printer) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return table.Render()
}

// Status colours an agent or transaction status.
func (p *Printer) Status(status string) string {
	if !p.useColors {
		return status
	}
	switch status {
	case string(domain.AgentActive), string(domain.TxCompleted):
		return color.GreenString(status)
	case string(domain.AgentPending): // also covers domain.TxPending ("pending")
		return color.YellowString(status)
	case string(domain.AgentSuspended), string(domain.TxFailed), string(domain.TxCancelled):
		return color.RedString(status)
	}
	return status
}

// Controls renders the pagination bar, e.g. "« Previous  1  [2]  3  Next »".
// Disabled controls are shown dimmed.
func (p *Printer) Controls(c domain.PageControls) string {
	parts := make([]string, 0, len(c.Pages)+2)
	if c.Prev != nil {
		parts = append(parts, p.control(*c.Prev, "« Previous"))
	}
	for _, pc := range c.Pages {
		parts = append(parts, p.control(pc, pc.Label))
	}
	if c.Next != nil {
		parts = append(parts, p.control(*c.Next, "Next »"))
	}
	return strings.Join(parts, "  ")
}

func (p *Printer) control(c domain.PageControl, label string) string {
	if c.Active {
		label = "[" + label + "]"
	}
	if c.Disabled && p.useColors {
		return color.New(color.Faint).Sprint(label)
	}
	return label
}
