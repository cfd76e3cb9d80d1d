package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"declcheck/internal/diag"
	"declcheck/internal/driver"
	"declcheck/internal/symbols"
)

// Tab indexes the viewer tabs.
type Tab int

const (
	TabErrors Tab = iota
	TabSymbols
	tabCount
)

// String returns the tab title.
func (t Tab) String() string {
	switch t {
	case TabErrors:
		return "Errors"
	case TabSymbols:
		return "Symbols"
	default:
		return "?"
	}
}

const (
	maxColumnWidth = 60
	chromeHeight   = 6 // заголовок, вкладки, статус, отступы
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Padding(0, 1)
	errorStatusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	okStatusStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableBorderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
)

// ViewerModel shows the result of one analysis as two tables switched by tab.
type ViewerModel struct {
	title     string
	tables    [tabCount]table.Model
	active    Tab
	errCount  int
	symCount  int
	hasErrors bool
	quitting  bool
}

// NewViewer builds a viewer over diagnostics and symbols, both kept in their
// original order.
func NewViewer(title string, diags []diag.Diagnostic, syms []symbols.Symbol) *ViewerModel {
	m := &ViewerModel{
		title:    title,
		errCount: len(diags),
		symCount: len(syms),
	}
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			m.hasErrors = true
			break
		}
	}

	errRows := make([]table.Row, 0, len(diags))
	for _, d := range diags {
		errRows = append(errRows, table.Row{strconv.FormatUint(uint64(d.Line), 10), d.Message})
	}
	symRows := make([]table.Row, 0, len(syms))
	for _, s := range syms {
		symRows = append(symRows, table.Row{
			strconv.FormatUint(uint64(s.Line), 10),
			s.DataType.String(),
			s.Name,
			s.RawValue,
			s.UniqueID,
		})
	}

	m.tables[TabErrors] = newTable([]string{"Line", "Message"}, errRows)
	m.tables[TabSymbols] = newTable([]string{"Line", "DataType", "Name", "RawValue", "UniqueID"}, symRows)
	m.tables[TabErrors].Focus()
	return m
}

func newTable(titles []string, rows []table.Row) table.Model {
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		width := runewidth.StringWidth(title)
		for _, row := range rows {
			width = max(width, runewidth.StringWidth(row[i]))
		}
		cols[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("6"))

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(min(max(len(rows), 1), 20)+2),
	)
	t.SetStyles(styles)
	return t
}

func (m *ViewerModel) Init() tea.Cmd { return nil }

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchTo((m.active + 1) % tabCount)
			return m, nil
		case "shift+tab", "left", "h":
			m.switchTo((m.active + tabCount - 1) % tabCount)
			return m, nil
		case "1":
			m.switchTo(TabErrors)
			return m, nil
		case "2":
			m.switchTo(TabSymbols)
			return m, nil
		}
	case tea.WindowSizeMsg:
		h := max(msg.Height-chromeHeight, 3)
		for i := range m.tables {
			m.tables[i].SetHeight(h)
			m.tables[i].SetWidth(max(msg.Width-2, 20))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tables[m.active], cmd = m.tables[m.active].Update(msg)
	return m, cmd
}

func (m *ViewerModel) switchTo(tab Tab) {
	m.tables[m.active].Blur()
	m.active = tab
	m.tables[m.active].Focus()
}

func (m *ViewerModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s (%d)", t+1, t, m.count(t))
		if t == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(tableBorderStyle.Render(m.tables[m.active].View()))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/←/→ switch  ↑/↓ scroll  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *ViewerModel) count(t Tab) int {
	if t == TabErrors {
		return m.errCount
	}
	return m.symCount
}

func (m *ViewerModel) status() string {
	if m.hasErrors {
		return errorStatusStyle.Render(fmt.Sprintf("semantic errors found: %d error(s), %d symbol(s)", m.errCount, m.symCount))
	}
	return okStatusStyle.Render(fmt.Sprintf("no errors found: %d symbol(s)", m.symCount))
}

// RunViewer runs the viewer full screen until the user quits.
func RunViewer(title string, diags []diag.Diagnostic, syms []symbols.Symbol, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(NewViewer(title, diags, syms), opts...).Run()
	return err
}

// RunProgress shows NewProgressModel until events is closed.
func RunProgress(title string, files []string, events <-chan driver.ProgressEvent, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewProgressModel(title, files, events), opts...).Run()
	return err
}
