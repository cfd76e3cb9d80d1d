package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"declcheck/internal/driver"
)

const statusColumn = 10

var (
	progressTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyles       = map[driver.ProgressStatus]lipgloss.Style{
		driver.StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		driver.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		driver.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// progressModel показывает статус каждого файла при проверке директории.
type progressModel struct {
	title    string
	events   <-chan driver.ProgressEvent
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int // path -> items
	finished int
	width    int
	done     bool
}

type fileItem struct {
	path   string
	status driver.ProgressStatus
}

type (
	eventMsg driver.ProgressEvent
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders directory check
// progress. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyles[driver.StatusWorking])),
		prog:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: driver.StatusQueued}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(driver.ProgressEvent(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd = tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		// после завершения спиннер больше не тикает
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var next tea.Model
		next, cmd = m.prog.Update(msg)
		m.prog = next.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(progressTitleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, item := range m.items {
		status := statusStyles[item.status].Render(fmt.Sprintf("%*s", statusColumn, item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	counts := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.items))
	if m.done {
		return "done: " + counts
	}
	return m.spinner.View() + " " + counts
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// applyEvent учитывает файл в счётчике только при первом переходе
// в конечное состояние.
func (m *progressModel) applyEvent(ev driver.ProgressEvent) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if !item.status.Final() && ev.Status.Final() {
		m.finished++
	}
	item.status = ev.Status
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

// truncate обрезает value до width колонок; "..." входит в width.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	default:
		return runewidth.Truncate(value, width, "...")
	}
}
