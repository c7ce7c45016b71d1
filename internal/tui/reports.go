package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/project"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	deps   *Deps
	width  int
	height int

	mode   reportMode
	hours  bool // chart in hours instead of minutes
	focus  []project.DailyFocus
	offset int // weeks or 7-day blocks offset from today (0 = current)

	chart barchart.Model
}

func newReportsModel(d *Deps) reportsModel {
	return reportsModel{
		deps:  d,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	focus []project.DailyFocus
}

func (r reportsModel) refresh() tea.Cmd {
	deps := r.deps
	from, to := r.dateRange(time.Now())
	return func() tea.Msg {
		return reportsDataMsg{focus: deps.Projects.DailyFocus(from, to)}
	}
}

func (r reportsModel) dateRange(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch r.mode {
	case reportWeekly:
		// Start of current week (Monday)
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.focus = msg.focus
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		case key.Matches(msg, keys.Cycle):
			r.hours = !r.hours
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange(time.Now())

	// Build bars for each day in range
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		for _, f := range r.focus {
			if f.Date != dateStr {
				continue
			}
			v := float64(f.Minutes)
			if r.hours {
				v /= 60
			}
			values = append(values, barchart.BarValue{
				Name:  f.ProjectName,
				Value: v,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(f.ProjectColor)),
			})
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) totals() (minutes, sessions int) {
	for _, f := range r.focus {
		minutes += f.Minutes
		sessions += f.Sessions
	}
	return minutes, sessions
}

func (r reportsModel) view() string {
	w := r.width - 4

	// Mode tabs
	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange(time.Now())
	unit := "minutes"
	if r.hours {
		unit = "hours"
	}
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s  (%s)", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006"), unit))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(tr(r.deps.lang, "Reports")), "  ", modeTabs, "  ", dateLabel,
	)

	minutes, sessions := r.totals()
	total := fmt.Sprintf("  %s %s   %s %d",
		mutedStyle.Render("Focus:"), accentStyle.Render(formatMinutes(minutes)),
		mutedStyle.Render("Sessions:"), sessions)

	nav := mutedStyle.Render("  ←/→: navigate  m: daily/weekly  c: minutes/hours")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), total, "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.focus) == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %-20s %10s %8s", "Date", "Project", "Focus", "Sessions"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, f := range r.focus {
		rows = append(rows, fmt.Sprintf("  %-12s %s %-18s %10s %8d",
			f.Date, dot(f.ProjectColor), f.ProjectName, formatMinutes(f.Minutes), f.Sessions,
		))
	}

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, f := range r.focus {
		if seen[f.ProjectID] {
			continue
		}
		seen[f.ProjectID] = true
		items = append(items, fmt.Sprintf("%s %s", dot(f.ProjectColor), f.ProjectName))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
