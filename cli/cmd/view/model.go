package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/q3/fragment"
	"github.com/ardnew/q3/log"
)

// reloadedMsg carries the result of reloading the document.
type reloadedMsg struct {
	store *fragment.Store
	err   error
}

// level is the severity of a footer message.
type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
)

type status struct {
	text  string
	level level
}

func (s status) render() string {
	switch s.level {
	case levelWarn:
		return warnStyle.Render("! " + s.text)
	case levelError:
		return errorStyle.Render("✗ " + s.text)
	default:
		return infoStyle.Render(s.text)
	}
}

// row is one fragment as displayed.
type row struct {
	name  string
	kind  string
	value string
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	previewLines  = 6
	kindWidth     = 9
	ellipsis      = "…"
)

// model is the Bubble Tea model for the viewer.
type model struct {
	ctxFunc   func() context.Context
	load      Loader
	logger    log.Logger
	store     *fragment.Store
	path      string
	status    status
	rows      []row
	visible   []row
	table     table.Model
	filter    textinput.Model
	width     int
	height    int
	filtering bool
	changed   bool
}

func newModel(
	ctx context.Context,
	path string,
	load Loader,
	store *fragment.Store,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name"
	ti.CharLimit = 256

	t := table.New(
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	m := model{
		ctxFunc: func() context.Context { return ctx },
		load:    load,
		logger:  logger,
		path:    path,
		table:   t,
		filter:  ti,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	m.setStore(store)
	m.layout()
	m.status = status{text: fmt.Sprintf("loaded %d fragments", store.Len())}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fileChangedMsg:
		m.changed = true
		m.status = status{text: "file changed, reloading"}

		return m, m.reload()

	case watchErrorMsg:
		m.status = status{text: msg.err.Error(), level: levelWarn}

		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.logger.TraceContext(m.ctxFunc(), "view reload failed",
				slog.Any("error", msg.err))
			m.status = status{text: msg.err.Error(), level: levelError}

			return m, nil
		}

		m.setStore(msg.store)
		m.changed = false
		m.status = status{text: fmt.Sprintf("reloaded %d fragments", msg.store.Len())}

		return m, nil
	}

	var cmd tea.Cmd

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "view keypress",
		slog.String("key", msg.String()))

	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			m.layout()

			return m, nil

		case "enter":
			m.filtering = false
			m.filter.Blur()
			m.layout()

			return m, nil

		case "ctrl+c":
			return m, tea.Quit
		}

		var cmd tea.Cmd

		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()

		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		m.layout()

		return m, cmd

	case "esc":
		m.filter.SetValue("")
		m.applyFilter()

		return m, nil

	case "r":
		m.status = status{text: "reloading"}

		return m, m.reload()
	}

	var cmd tea.Cmd

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// reload loads the document again off the UI goroutine.
func (m model) reload() tea.Cmd {
	ctx, load, path := m.ctxFunc(), m.load, m.path

	return func() tea.Msg {
		store, err := load(ctx, path)

		return reloadedMsg{store: store, err: err}
	}
}

// setStore replaces every row, keeping the current filter and, when it is
// still present, the selected name.
func (m *model) setStore(store *fragment.Store) {
	selected := m.selected()

	m.store = store
	m.rows = make([]row, 0, store.Len())

	for name, f := range store.All() {
		m.rows = append(m.rows, row{
			name:  string(name),
			kind:  f.Kind().String(),
			value: f.String(),
		})
	}

	m.applyFilter()

	for i, r := range m.visible {
		if r.name == selected {
			m.table.SetCursor(i)

			break
		}
	}
}

// applyFilter ranks rows by fuzzy match of their names against the filter.
// An empty filter shows every row in store order.
func (m *model) applyFilter() {
	pattern := m.filter.Value()

	m.visible = make([]row, 0, len(m.rows))

	if pattern == "" {
		m.visible = append(m.visible, m.rows...)
	} else {
		names := make([]string, len(m.rows))
		for i, r := range m.rows {
			names[i] = r.name
		}

		for _, match := range fuzzy.Find(pattern, names) {
			m.visible = append(m.visible, m.rows[match.Index])
		}
	}

	m.refreshRows()
}

func (m *model) refreshRows() {
	cols := m.table.Columns()
	valueWidth := defaultWidth

	if len(cols) == 3 {
		valueWidth = cols[2].Width
	}

	rows := make([]table.Row, len(m.visible))
	for i, r := range m.visible {
		rows[i] = table.Row{r.name, r.kind, cell(r.value, valueWidth)}
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// layout sizes the table columns and height to the window.
func (m *model) layout() {
	nameWidth := min(max(m.width/4, 10), 32)
	valueWidth := max(m.width-nameWidth-kindWidth-6, 10)

	m.table.SetColumns([]table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Kind", Width: kindWidth},
		{Title: "Value", Width: valueWidth},
	})

	reserved := previewLines + 2 // preview border + footer
	if m.filtering || m.filter.Value() != "" {
		reserved++
	}

	m.table.SetWidth(m.width)
	m.table.SetHeight(max(m.height-reserved, 3))
	m.filter.Width = max(m.width-2, 10)
	m.refreshRows()
}

// selected returns the name of the highlighted row, or "".
func (m model) selected() string {
	if c := m.table.Cursor(); c >= 0 && c < len(m.visible) {
		return m.visible[c].name
	}

	return ""
}

func (m model) View() string {
	var b strings.Builder

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.preview())
	b.WriteString("\n")
	b.WriteString(m.footer())

	return b.String()
}

func (m model) preview() string {
	text := hintStyle.Render("no fragment selected")

	if name := m.selected(); name != "" {
		if f, ok := m.store.Get(fragment.Name(name)); ok {
			text = f.String()
		}
	}

	return previewStyle.
		Width(m.width).
		MaxHeight(previewLines + 1).
		Render(text)
}

func (m model) footer() string {
	path := pathStyle.Render(runewidth.Truncate(m.path, max(m.width/2, 10), ellipsis))

	parts := []string{path}
	if m.changed {
		parts = append(parts, changedStyle.Render("modified"))
	}

	parts = append(parts, " "+m.status.render())

	if !m.filtering {
		help := hintStyle.Render("  / filter · r reload · q quit")
		if lipgloss.Width(strings.Join(parts, "")+help) <= m.width {
			parts = append(parts, help)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// cell flattens s to one line and truncates it to width columns.
func cell(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")

	if runewidth.StringWidth(s) <= width {
		return s
	}

	return runewidth.Truncate(s, width, ellipsis)
}
