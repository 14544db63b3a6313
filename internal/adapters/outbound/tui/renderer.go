package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderSummary renders the aggregate for the terminal. outputPath is shown
// below the header when non-empty.
func RenderSummary(report *domain.AggregateReport, outputPath string) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("bhce2gw")
	subtitle := dimStyle.Render("BloodHound CE summary")
	totals := titleStyle.Render(fmt.Sprintf("%s domains  %s computers  %s users",
		humanize.Comma(int64(len(report.Domains))),
		humanize.Comma(int64(totalComputers(report))),
		humanize.Comma(int64(totalUsers(report))),
	))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + totals))
	b.WriteString("\n")
	// Outside the box so long paths are never wrapped.
	if outputPath != "" {
		b.WriteString("  " + dimStyle.Render("written to "+outputPath) + "\n")
	}
	b.WriteString("\n")

	// ── Domains ──
	if len(report.Domains) == 0 {
		b.WriteString("  " + warnStyle.Render("No domains collected.") + "\n\n")
	}
	for _, d := range report.Domains {
		renderDomain(&b, d)
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Operating systems ──
	b.WriteString("  " + titleStyle.Render("Operating systems") + "\n")
	renderHistogram(&b, report.Computers.OperatingSystems, "    ")
	b.WriteString("\n")
	return b.String()
}

func renderDomain(b *strings.Builder, d domain.Domain) {
	fmt.Fprintf(b, "  %s %s\n", nameStyle.Render(d.Name), dimStyle.Render(d.FunctionalLevel))
	fmt.Fprintf(b, "    %s %s\n", padRight("computers", 18), humanize.Comma(int64(d.Computers.Count)))
	fmt.Fprintf(b, "    %s %s\n", padRight("users", 18), humanize.Comma(int64(d.Users.Count)))

	stale := humanize.Comma(int64(d.Users.OldPwdLastSet))
	if d.Users.OldPwdLastSet > 0 {
		stale = warnStyle.Render(stale)
	} else {
		stale = passStyle.Render(stale)
	}
	fmt.Fprintf(b, "    %s %s %s\n", padRight("stale passwords", 18), stale,
		faintStyle.Render(fmt.Sprintf("(> %d days)", domain.StalePasswordDays)))

	fmt.Fprintf(b, "    %s %s\n", padRight("inbound trusts", 18), trustList(d.InboundTrusts))
	fmt.Fprintf(b, "    %s %s\n", padRight("outbound trusts", 18), trustList(d.OutboundTrusts))
}

func renderHistogram(b *strings.Builder, h domain.OSHistogram, indent string) {
	if len(h) == 0 {
		b.WriteString(indent + dimStyle.Render("none reported") + "\n")
		return
	}
	for _, name := range sortedOS(h) {
		fmt.Fprintf(b, "%s%s %s\n", indent, padRight(name, 40), humanize.Comma(int64(h[name])))
	}
}

// RenderPublish renders the outcome of publishing to a report.
func RenderPublish(reportID int64, fieldName string, err *domain.PublishError) string {
	if err == nil {
		return fmt.Sprintf("  %s report %d, field %s\n",
			passStyle.Render("published"), reportID, nameStyle.Render(fieldName))
	}
	return fmt.Sprintf("  %s during %s (%s): %s\n",
		errorTagStyle.Render("publish failed"), err.Stage, err.Category, dimStyle.Render(err.Err.Error()))
}

// sortedOS orders by count, then name.
func sortedOS(h domain.OSHistogram) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if h[names[i]] != h[names[j]] {
			return h[names[i]] > h[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func trustList(names []string) string {
	if len(names) == 0 {
		return faintStyle.Render("none")
	}
	return strings.Join(names, ", ")
}

func totalComputers(r *domain.AggregateReport) int {
	n := 0
	for _, d := range r.Domains {
		n += d.Computers.Count
	}
	return n
}

func totalUsers(r *domain.AggregateReport) int {
	n := 0
	for _, d := range r.Domains {
		n += d.Users.Count
	}
	return n
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
