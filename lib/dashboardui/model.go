// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboardui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plantwatch-project/plantwatch/monitoring"
	"github.com/plantwatch-project/plantwatch/viewsync"
)

// eventLevels is the cycle the level filter key steps through.
var eventLevels = []string{"", "warning", "critical"}

// maxFeedRows bounds the alert feed pane.
const maxFeedRows = 12

// Feeds carries the three synchronizers backing the dashboard's
// panes. The caller starts them and hands them to NewModel; the model
// stops them on quit.
type Feeds struct {
	Stats  *viewsync.Synchronizer[struct{}, *monitoring.DashboardStats]
	Chart  *viewsync.Synchronizer[struct{}, *monitoring.TemperatureChart]
	Events *viewsync.Synchronizer[monitoring.EventQuery, []monitoring.Event]
}

type statsMsg viewsync.Update[*monitoring.DashboardStats]
type chartMsg viewsync.Update[*monitoring.TemperatureChart]
type eventsMsg viewsync.Update[[]monitoring.Event]

// feedClosedMsg arrives when a synchronizer's update channel closes:
// either the model stopped it, or its Halt predicate fired on a
// collapsed session.
type feedClosedMsg struct{ name string }

// Model is the dashboard's bubbletea model.
type Model struct {
	feeds    Feeds
	username string

	width  int
	height int

	spinner spinner.Model

	stats      *monitoring.DashboardStats
	statsErr   error
	chart      *monitoring.TemperatureChart
	chartErr   error
	events     []monitoring.Event
	eventsErr  error
	levelIndex int

	quitting    bool
	sessionLost bool
}

// NewModel builds the dashboard model. username labels the header;
// the feeds must already be started.
func NewModel(feeds Feeds, username string) Model {
	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	loadingSpinner.Style = dimStyle
	return Model{
		feeds:    feeds,
		username: username,
		spinner:  loadingSpinner,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		listenFeed(m.feeds.Stats.Updates(), "stats", func(u viewsync.Update[*monitoring.DashboardStats]) tea.Msg { return statsMsg(u) }),
		listenFeed(m.feeds.Chart.Updates(), "chart", func(u viewsync.Update[*monitoring.TemperatureChart]) tea.Msg { return chartMsg(u) }),
		listenFeed(m.feeds.Events.Updates(), "events", func(u viewsync.Update[[]monitoring.Event]) tea.Msg { return eventsMsg(u) }),
	)
}

// listenFeed returns a tea.Cmd that blocks until the feed publishes,
// then delivers the update as a message. Re-issued after every
// receive, following the one-message-per-command discipline.
func listenFeed[T any](channel <-chan viewsync.Update[T], name string, wrap func(viewsync.Update[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-channel
		if !ok {
			return feedClosedMsg{name: name}
		}
		return wrap(update)
	}
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		return m, nil

	case tea.KeyMsg:
		switch message.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.feeds.Stats.Stop()
			m.feeds.Chart.Stop()
			m.feeds.Events.Stop()
			return m, tea.Quit
		case "r":
			m.feeds.Stats.Refresh()
			m.feeds.Chart.Refresh()
			m.feeds.Events.Refresh()
			return m, nil
		case "f":
			// Cycle the alert feed's severity filter; the feed
			// re-fetches immediately for the new level.
			m.levelIndex = (m.levelIndex + 1) % len(eventLevels)
			m.feeds.Events.SetQuery(monitoring.EventQuery{Level: eventLevels[m.levelIndex]})
			return m, nil
		}
		return m, nil

	case statsMsg:
		if message.Err != nil {
			m.statsErr = message.Err
		} else {
			m.stats = message.Data
			m.statsErr = nil
		}
		return m, listenFeed(m.feeds.Stats.Updates(), "stats",
			func(u viewsync.Update[*monitoring.DashboardStats]) tea.Msg { return statsMsg(u) })

	case chartMsg:
		if message.Err != nil {
			m.chartErr = message.Err
		} else {
			m.chart = message.Data
			m.chartErr = nil
		}
		return m, listenFeed(m.feeds.Chart.Updates(), "chart",
			func(u viewsync.Update[*monitoring.TemperatureChart]) tea.Msg { return chartMsg(u) })

	case eventsMsg:
		if message.Err != nil {
			m.eventsErr = message.Err
		} else {
			m.events = message.Data
			m.eventsErr = nil
		}
		return m, listenFeed(m.feeds.Events.Updates(), "events",
			func(u viewsync.Update[[]monitoring.Event]) tea.Msg { return eventsMsg(u) })

	case feedClosedMsg:
		// A feed ending while the user didn't quit means the session
		// collapsed (every feed halts on expiry).
		if !m.quitting {
			m.sessionLost = true
			m.quitting = true
			m.feeds.Stats.Stop()
			m.feeds.Chart.Stop()
			m.feeds.Events.Stop()
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var command tea.Cmd
		m.spinner, command = m.spinner.Update(message)
		return m, command
	}

	return m, nil
}

// SessionLost reports whether the model quit because the session
// collapsed rather than by user request. main checks this after Run
// to print a login hint.
func (m Model) SessionLost() bool {
	return m.sessionLost
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render("Plantwatch") + dimStyle.Render("  "+m.username)

	panes := []string{
		m.statsPane(),
		m.chartPane(),
		m.eventsPane(),
	}

	help := helpStyle.Render("r refresh · f filter: " + levelLabel(eventLevels[m.levelIndex]) + " · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(panes, "\n"),
		help,
	)
}

func (m Model) statsPane() string {
	title := paneTitleStyle.Render("Fleet")
	if m.stats == nil {
		return paneStyle.Render(title + "\n" + m.loadingLine(m.statsErr))
	}

	stats := m.stats
	line := fmt.Sprintf("%d devices   %s   %s   %s   %s",
		stats.TotalDevices,
		okStyle.Render(fmt.Sprintf("%d online", stats.OnlineDevices)),
		criticalStyle.Render(fmt.Sprintf("%d error", stats.ErrorDevices)),
		dimStyle.Render(fmt.Sprintf("%d offline", stats.OfflineDevices)),
		warningStyle.Render(fmt.Sprintf("%d maintenance", stats.MaintenanceDevices)),
	)
	alerts := fmt.Sprintf("alerts today: %d (%s)",
		stats.TotalAlertsToday,
		criticalStyle.Render(fmt.Sprintf("%d critical", stats.CriticalAlerts)),
	)
	return paneStyle.Render(title + "\n" + line + "\n" + alerts + m.staleSuffix(m.statsErr))
}

func (m Model) chartPane() string {
	title := paneTitleStyle.Render("Temperature (24h)")
	if m.chart == nil {
		return paneStyle.Render(title + "\n" + m.loadingLine(m.chartErr))
	}

	chart := m.chart
	summary := fmt.Sprintf("avg %.1f   min %.1f   max %.1f",
		chart.AvgValue, chart.MinValue, chart.MaxValue)
	return paneStyle.Render(title + "\n" + sparkline(chart.Data, m.chartWidth()) +
		"\n" + dimStyle.Render(summary) + m.staleSuffix(m.chartErr))
}

func (m Model) eventsPane() string {
	title := paneTitleStyle.Render("Alerts" + levelSuffix(eventLevels[m.levelIndex]))
	if m.events == nil && m.eventsErr == nil {
		return paneStyle.Render(title + "\n" + m.loadingLine(nil))
	}

	var rows []string
	for i, event := range m.events {
		if i == maxFeedRows {
			rows = append(rows, dimStyle.Render(fmt.Sprintf("… %d more", len(m.events)-maxFeedRows)))
			break
		}
		style := warningStyle
		if event.Type == "critical" {
			style = criticalStyle
		}
		rows = append(rows, fmt.Sprintf("%s %s  %s",
			style.Render(event.Type), event.Device, event.Message))
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("no alerts"))
	}
	return paneStyle.Render(title + "\n" + strings.Join(rows, "\n") + m.staleSuffix(m.eventsErr))
}

func (m Model) loadingLine(err error) string {
	if err != nil {
		return criticalStyle.Render(fmt.Sprintf("unavailable: %v", err))
	}
	return m.spinner.View() + dimStyle.Render(" loading…")
}

// staleSuffix marks a pane whose last refresh failed but which still
// shows older data.
func (m Model) staleSuffix(err error) string {
	if err == nil {
		return ""
	}
	return "\n" + warningStyle.Render(fmt.Sprintf("stale: %v", err))
}

func (m Model) chartWidth() int {
	if m.width == 0 {
		return 60
	}
	width := m.width - 6
	if width < 10 {
		width = 10
	}
	return width
}

// sparkline renders the chart points as a row of block characters
// scaled to the value range, downsampled to fit the width.
func sparkline(points []monitoring.ChartPoint, width int) string {
	if len(points) == 0 {
		return dimStyle.Render("no data")
	}

	blocks := []rune("▁▂▃▄▅▆▇█")

	sampled := points
	if len(points) > width {
		sampled = make([]monitoring.ChartPoint, width)
		for i := range sampled {
			sampled[i] = points[i*len(points)/width]
		}
	}

	minValue, maxValue := sampled[0].Value, sampled[0].Value
	for _, point := range sampled {
		if point.Value < minValue {
			minValue = point.Value
		}
		if point.Value > maxValue {
			maxValue = point.Value
		}
	}

	var line strings.Builder
	valueRange := maxValue - minValue
	for _, point := range sampled {
		index := 0
		if valueRange > 0 {
			index = int((point.Value - minValue) / valueRange * float64(len(blocks)-1))
		}
		line.WriteRune(blocks[index])
	}
	return line.String()
}

func levelLabel(level string) string {
	if level == "" {
		return "all"
	}
	return level
}

func levelSuffix(level string) string {
	if level == "" {
		return ""
	}
	return " · " + level
}
