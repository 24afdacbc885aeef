// Package tui is the terminal front-end of the fact browser.
//
// The Model never owns fact state. It calls View operations from Update,
// runs the slow ones (loads, inserts, votes) as tea.Cmds, and redraws from
// the Snapshot carried by the View's events.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"today-i-learned/internal/category"
	"today-i-learned/internal/form"
	"today-i-learned/internal/model"
	"today-i-learned/internal/view"
)

const (
	focusText = iota
	focusSource
	focusCategory
	focusCount
)

type (
	eventMsg  view.Event
	loadedMsg struct{ err error }
	savedMsg  struct{ err error }
	votedMsg  struct{ err error }
	closedMsg struct{}
)

// Model is the bubbletea model of the browser.
type Model struct {
	ctx    context.Context
	view   *view.View
	events <-chan view.Event
	cancel func()

	snap    view.Snapshot
	cursor  int
	focus   int
	text    textinput.Model
	source  textinput.Model
	formErr error
	// reported holds categories whose lookup failure was already surfaced.
	reported map[string]bool

	spinner spinner.Model
	help    help.Model
	styles  Styles
	width   int
}

// New subscribes to v. The subscription ends when the program quits.
func New(ctx context.Context, v *view.View) Model {
	events, cancel := v.Subscribe()

	ti := textinput.New()
	ti.Placeholder = "Share a fact with the world..."
	ti.CharLimit = model.MaxTextLength
	ti.Width = 60

	si := textinput.New()
	si.Placeholder = "Trustworthy source..."
	si.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		view:     v,
		events:   events,
		cancel:   cancel,
		snap:     v.Snapshot(),
		text:     ti,
		source:   si,
		reported: map[string]bool{},
		spinner:  sp,
		help:     help.New(),
		styles:   DefaultStyles(),
	}
	m.spinner.Style = m.styles.Spinner
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.spinner.Tick,
		m.startCmd(),
	)
}

func waitForEvent(ch <-chan view.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) startCmd() tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: v.Start(ctx)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		err := v.Reload(ctx)
		if errors.Is(err, view.ErrLoadInProgress) {
			err = nil
		}
		return loadedMsg{err: err}
	}
}

func (m Model) persistCmd(pending model.Fact) tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		return savedMsg{err: v.Persist(ctx, pending)}
	}
}

func (m Model) voteCmd(id model.FactID, kind model.VoteKind) tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		_, err := v.Vote(ctx, id, kind)
		return votedMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.snap = msg.Snapshot
		m.afterRefresh()
		return m, waitForEvent(m.events)

	case closedMsg:
		return m, nil

	case loadedMsg, savedMsg, votedMsg:
		// Errors already reached the notice through the View.
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.snap.FormVisible {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	reg := m.view.Registry()
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.ToggleForm):
		m.openForm()
	case key.Matches(msg, keys.NextCat):
		m.selectCategory(reg.Next(m.snap.SelectedCategory))
	case key.Matches(msg, keys.PrevCat):
		m.selectCategory(reg.Prev(m.snap.SelectedCategory))
	case key.Matches(msg, keys.Reload):
		return m, m.reloadCmd()
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.snap.Visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Interest):
		return m, m.voteSelected(model.VoteInteresting)
	case key.Matches(msg, keys.Mindblow):
		return m, m.voteSelected(model.VoteMindblowing)
	case key.Matches(msg, keys.False):
		return m, m.voteSelected(model.VoteFalse)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.view.Form()
	reg := m.view.Registry()
	switch {
	case key.Matches(msg, keys.Close):
		m.view.ToggleForm()
		m.blurInputs()
		m.refresh()
		return m, nil
	case key.Matches(msg, keys.NextField):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, keys.PrevField):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case key.Matches(msg, keys.Post):
		return m.submit()
	case m.focus == focusCategory && key.Matches(msg, keys.NextCat):
		f.Category = cycleFormCategory(reg, f.Category, 1)
		return m, nil
	case m.focus == focusCategory && key.Matches(msg, keys.PrevCat):
		f.Category = cycleFormCategory(reg, f.Category, -1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.text, cmd = m.text.Update(msg)
		f.Text = m.text.Value()
	case focusSource:
		m.source, cmd = m.source.Update(msg)
		f.Source = m.source.Value()
	}
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	f := m.view.Form()
	f.Text = m.text.Value()
	f.Source = m.source.Value()
	pending, err := m.view.Submit()
	if err != nil {
		m.formErr = err
		return *m, nil
	}
	m.formErr = nil
	m.text.Reset()
	m.source.Reset()
	m.blurInputs()
	m.cursor = 0
	m.refresh()
	return *m, m.persistCmd(pending)
}

func (m *Model) openForm() {
	m.view.ToggleForm()
	m.formErr = nil
	m.setFocus(focusText)
	m.refresh()
}

func (m *Model) setFocus(i int) {
	m.focus = i
	m.text.Blur()
	m.source.Blur()
	switch i {
	case focusText:
		m.text.Focus()
	case focusSource:
		m.source.Focus()
	}
}

func (m *Model) blurInputs() {
	m.text.Blur()
	m.source.Blur()
	m.focus = focusText
}

func (m *Model) selectCategory(name string) {
	if err := m.view.SelectCategory(name); err != nil {
		m.view.Notify(err)
	}
	m.cursor = 0
	m.refresh()
}

func (m *Model) voteSelected(kind model.VoteKind) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.snap.Visible) {
		return nil
	}
	return m.voteCmd(m.snap.Visible[m.cursor].ID, kind)
}

// refresh pulls a snapshot synchronously so the next frame reflects calls
// made in this Update; the matching event carries the same state.
func (m *Model) refresh() {
	m.snap = m.view.Snapshot()
	m.afterRefresh()
}

func (m *Model) afterRefresh() {
	if m.cursor >= len(m.snap.Visible) {
		m.cursor = len(m.snap.Visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	reg := m.view.Registry()
	for _, f := range m.snap.Visible {
		if m.reported[f.Category] {
			continue
		}
		if _, err := reg.ColorOf(f.Category); err != nil {
			m.reported[f.Category] = true
			m.view.Notify(err)
		}
	}
}

func cycleFormCategory(reg *category.Registry, cur string, dir int) string {
	names := reg.Names()
	for i, n := range names {
		if n == cur {
			return names[(i+dir+len(names))%len(names)]
		}
	}
	if dir < 0 {
		return names[len(names)-1]
	}
	return names[0]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.snap.FormVisible {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderList()))
	b.WriteString("\n\n")
	if m.snap.Notice != nil {
		b.WriteString(m.styles.Notice.Render("⚠ " + m.snap.Notice.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(footer(len(m.snap.Facts))))
	b.WriteString("\n")
	if m.snap.FormVisible {
		b.WriteString(m.help.ShortHelpView(keys.formHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(keys.listHelp()))
	}
	return b.String()
}

func footer(n int) string {
	return fmt.Sprintf("There are %d facts in the database. Add your own!", n)
}

func (m Model) renderHeader() string {
	label := "Share a fact"
	if m.snap.FormVisible {
		label = "Close"
	}
	title := m.styles.Header.Render("Today I learned")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", m.styles.Button.Render(label))
}

func (m Model) renderSidebar() string {
	reg := m.view.Registry()
	lines := []string{m.sidebarEntry(category.All, "")}
	for _, c := range reg.All() {
		lines = append(lines, m.sidebarEntry(c.Name, c.Color))
	}
	return m.styles.Sidebar.Render(strings.Join(lines, "\n"))
}

func (m Model) sidebarEntry(name, color string) string {
	label := m.styles.Tag(name, color)
	if name == m.snap.SelectedCategory {
		return m.styles.Cursor.Render("▸ ") + label
	}
	return "  " + label
}

func (m Model) renderForm() string {
	f := m.view.Form()
	reg := m.view.Registry()

	label := func(i int, s string) string {
		if m.focus == i {
			return m.styles.Focused.Render(s)
		}
		return m.styles.Label.Render(s)
	}
	remaining := model.MaxTextLength - form.TextLength(m.text.Value())

	cat := m.styles.Muted.Render("choose category")
	if f.Category != "" {
		color, _ := reg.ColorOf(f.Category)
		cat = m.styles.Tag(f.Category, color)
	}

	rows := []string{
		label(focusText, "Fact") + m.text.View() + " " + m.styles.Muted.Render(fmt.Sprint(remaining)),
		label(focusSource, "Source") + m.source.View(),
		label(focusCategory, "Category") + "◂ " + cat + " ▸",
	}
	var ve *form.ValidationError
	if errors.As(m.formErr, &ve) {
		for _, field := range []string{form.FieldText, form.FieldSource, form.FieldCategory} {
			if msg, ok := ve.Fields[field]; ok {
				rows = append(rows, m.styles.Notice.Render(field+": "+msg))
			}
		}
	}
	return m.styles.Form.Render(strings.Join(rows, "\n"))
}

func (m Model) renderList() string {
	if m.snap.Loading {
		return m.spinner.View() + " Loading..."
	}
	if len(m.snap.Visible) == 0 {
		return "No facts for this category yet! Create the first one ✌️"
	}
	reg := m.view.Registry()
	var b strings.Builder
	for i, f := range m.snap.Visible {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderFact(i, f, reg))
	}
	return b.String()
}

func (m Model) renderFact(i int, f model.Fact, reg *category.Registry) string {
	prefix := "  "
	if i == m.cursor {
		prefix = m.styles.Cursor.Render("> ")
	}
	line := prefix
	if f.IsDisputed() {
		line += m.styles.Disputed.Render("[⛔️ DISPUTED] ")
	}
	line += m.styles.Item.Render(f.Text)
	line += " " + m.styles.Muted.Render("("+f.Source+")")

	// Unknown categories render plain; afterRefresh reports them once.
	color, _ := reg.ColorOf(f.Category)
	line += " " + m.styles.Tag(f.Category, color)

	if f.Pending {
		line += " " + m.styles.Muted.Render("saving...")
	} else {
		line += fmt.Sprintf("  👍 %d 🤯 %d ⛔️ %d", f.VotesInteresting, f.VotesMindblowing, f.VotesFalse)
	}
	return line
}
