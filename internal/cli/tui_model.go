package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/optimistic"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loadedMsg struct {
	listID string
	err    error
}

// refreshMsg asks for a re-render after a background cache write.
type refreshMsg struct{}

type settledMsg struct {
	listID string
	req    contract.MutationRequest
	out    optimistic.Outcome
}

type inputKind int

const (
	inputNone inputKind = iota
	inputAdd
	inputAddChild
	inputEditItem
	inputNewList
	inputRenameList
)

var inputTitles = map[inputKind]string{
	inputAdd:        "New item",
	inputAddChild:   "New child",
	inputEditItem:   "Rename item",
	inputNewList:    "New list",
	inputRenameList: "Rename list",
}

// confirmPrompt is a pending y/n question guarding req.
type confirmPrompt struct {
	text string
	req  contract.MutationRequest
}

// noticeBoard keeps the latest rollback notification for the status line.
type noticeBoard struct {
	mu     sync.Mutex
	latest string
}

func (b *noticeBoard) Notify(n optimistic.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = n.Message
}

func (b *noticeBoard) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.latest
	b.latest = ""
	return s
}

type tuiModel struct {
	coord   *optimistic.Coordinator
	notices *noticeBoard
	keys    tuiKeyMap

	listID string
	mode   domain.ViewMode
	cursor int

	input     textinput.Model
	inputKind inputKind
	inputCtx  string // parent or item id the input applies to
	prompt    *confirmPrompt
	status    string
	statusErr bool
	loading   bool
	width     int
	quitting  bool
}

// newTUIModel builds the model and its coordinator. wake, when set, is called
// from background goroutines whenever the cache changes outside Update.
func newTUIModel(transport optimistic.Transport, listID string, opts optimistic.Options, wake func()) *tuiModel {
	notices := &noticeBoard{}
	opts.Notifier = optimistic.NotifierFunc(func(n optimistic.Notification) {
		notices.Notify(n)
		if wake != nil {
			wake()
		}
	})
	opts.OnChange = func(string) {
		if wake != nil {
			wake()
		}
	}

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "› "

	return &tuiModel{
		coord:   optimistic.New(transport, opts),
		notices: notices,
		keys:    defaultTUIKeys(),
		listID:  listID,
		mode:    domain.ViewPending,
		input:   ti,
		loading: listID != "",
	}
}

func (m *tuiModel) Init() tea.Cmd {
	if m.listID == "" {
		return nil
	}
	return m.load(m.listID, false)
}

func (m *tuiModel) load(listID string, force bool) tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		var err error
		if force {
			err = coord.Refresh(context.Background(), listID)
		} else {
			_, err = coord.Load(context.Background(), listID)
		}
		return loadedMsg{listID: listID, err: err}
	}
}

// dispatch applies the prediction now and commits in the background.
func (m *tuiModel) dispatch(req contract.MutationRequest) tea.Cmd {
	listID := m.listID
	mut := m.coord.Begin(listID, req)
	return func() tea.Msg {
		return settledMsg{listID: listID, req: req, out: mut.Commit(context.Background())}
	}
}

func (m *tuiModel) view() (optimistic.View, bool) {
	if m.listID == "" {
		return optimistic.View{}, false
	}
	return m.coord.View(m.listID)
}

func (m *tuiModel) rows() []formatter.TreeItem {
	v, ok := m.view()
	if !ok || v.ActiveList == nil {
		return nil
	}
	return formatter.FlattenVisible(tree.BuildVisibleTree(v.ActiveList.Items, m.mode))
}

func (m *tuiModel) selected() (formatter.TreeItem, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return formatter.TreeItem{}, false
	}
	return rows[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if n := m.notices.take(); n != "" {
		m.setStatus(n, true)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.clampCursor()
		return m, nil

	case loadedMsg:
		if msg.listID != m.listID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		}
		m.clampCursor()
		return m, nil

	case settledMsg:
		return m, m.settled(msg)

	case tea.KeyMsg:
		if m.prompt != nil {
			return m, m.updatePrompt(msg)
		}
		if m.inputKind != inputNone {
			return m, m.updateInput(msg)
		}
		return m, m.updateBrowse(msg)
	}
	return m, nil
}

func (m *tuiModel) settled(msg settledMsg) tea.Cmd {
	if n := m.notices.take(); n != "" {
		m.setStatus(n, true)
	}
	defer m.clampCursor()
	if msg.out.State != optimistic.StateReconciled {
		return nil
	}
	switch msg.req.Action {
	case contract.ActionCreateList, contract.ActionDeleteList:
		next := msg.out.Redirect.ListID
		if msg.listID != m.listID || next == m.listID {
			return nil
		}
		m.listID, m.cursor = next, 0
		if next == "" {
			m.setStatus("No lists left. Press N to create one.", false)
			return nil
		}
		m.loading = true
		return m.load(next, false)
	}
	return nil
}

func (m *tuiModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.prompt = nil
		return m.dispatch(p.req)
	case key.Matches(msg, m.keys.No):
		m.prompt = nil
		m.setStatus("Cancelled.", false)
	}
	return nil
}

func (m *tuiModel) openInput(kind inputKind, ctx, value string) tea.Cmd {
	m.inputKind, m.inputCtx = kind, ctx
	m.input.Placeholder = inputTitles[kind]
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *tuiModel) closeInput() {
	m.inputKind, m.inputCtx = inputNone, ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return nil
	case key.Matches(msg, m.keys.Submit):
		kind, ctx := m.inputKind, m.inputCtx
		title := strings.TrimSpace(m.input.Value())
		m.closeInput()
		if title == "" && kind != inputNewList {
			m.setStatus("Title cannot be empty.", true)
			return nil
		}
		return m.submit(kind, ctx, title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *tuiModel) submit(kind inputKind, ctx, title string) tea.Cmd {
	switch kind {
	case inputAdd:
		return m.dispatch(contract.NewMutationRequest(contract.ActionCreateItem, contract.KeyTitle, title))
	case inputAddChild:
		return m.dispatch(contract.NewMutationRequest(contract.ActionCreateItem,
			contract.KeyTitle, title, contract.KeyParentID, ctx))
	case inputEditItem:
		return m.dispatch(contract.NewMutationRequest(contract.ActionEditItemTitle,
			contract.KeyItemID, ctx, contract.KeyTitle, title))
	case inputNewList:
		return m.dispatch(contract.NewMutationRequest(contract.ActionCreateList, contract.KeyTitle, title))
	case inputRenameList:
		return m.dispatch(contract.NewMutationRequest(contract.ActionEditListTitle, contract.KeyTitle, title))
	}
	return nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	m.setStatus("", false)
	hasList := m.listID != ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.coord.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.NewList):
		return m.openInput(inputNewList, "", "")
	case !hasList:
		return nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Mode):
		if m.mode == domain.ViewPending {
			m.mode = domain.ViewCompleted
		} else {
			m.mode = domain.ViewPending
		}
		m.cursor = 0
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m.load(m.listID, true)
	case key.Matches(msg, m.keys.NextList):
		return m.switchList(1)
	case key.Matches(msg, m.keys.PrevList):
		return m.switchList(-1)
	case key.Matches(msg, m.keys.Add):
		return m.openInput(inputAdd, "", "")
	case key.Matches(msg, m.keys.RenameList):
		if v, ok := m.view(); ok && v.ActiveList != nil {
			return m.openInput(inputRenameList, "", v.ActiveList.Title)
		}
	case key.Matches(msg, m.keys.DeleteList):
		if v, ok := m.view(); ok && v.ActiveList != nil {
			m.prompt = &confirmPrompt{
				text: fmt.Sprintf("Delete list %q and all of its items? (y/n)", v.ActiveList.Title),
				req:  contract.NewMutationRequest(contract.ActionDeleteList),
			}
		}
	case key.Matches(msg, m.keys.Reset):
		m.prompt = &confirmPrompt{
			text: "Reset every item to pending? (y/n)",
			req:  contract.NewMutationRequest(contract.ActionResetCompleted),
		}
	default:
		return m.updateRow(msg)
	}
	return nil
}

// updateRow handles the keys that act on the selected row.
func (m *tuiModel) updateRow(msg tea.KeyMsg) tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle(row.ID)
	case key.Matches(msg, m.keys.AddChild):
		return m.openInput(inputAddChild, row.ID, "")
	case key.Matches(msg, m.keys.Edit):
		return m.openInput(inputEditItem, row.ID, row.Title)
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(contract.NewMutationRequest(contract.ActionDeleteItem, contract.KeyItemID, row.ID))
	}
	return nil
}

// toggle flips the item, asking first when a whole subtree would change.
func (m *tuiModel) toggle(id string) tea.Cmd {
	v, ok := m.view()
	if !ok || v.ActiveList == nil {
		return nil
	}
	node, ok := tree.FindNode(v.ActiveList.Items, id)
	if !ok {
		return nil
	}
	completed := !node.Completed
	switch tree.ToggleConfirmation(node, completed) {
	case tree.ConfirmComplete:
		m.prompt = &confirmPrompt{
			text: fmt.Sprintf("Complete %q and everything under it? (y/n)", node.Title),
			req:  contract.NewMutationRequest(contract.ActionConfirmParent, contract.KeyItemID, id),
		}
		return nil
	case tree.ConfirmUncheck:
		m.prompt = &confirmPrompt{
			text: fmt.Sprintf("Reopen %q and everything under it? (y/n)", node.Title),
			req:  contract.NewMutationRequest(contract.ActionConfirmUncheckParent, contract.KeyItemID, id),
		}
		return nil
	}
	return m.dispatch(contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, id, contract.KeyCompleted, fmt.Sprint(completed)))
}

func (m *tuiModel) switchList(delta int) tea.Cmd {
	v, ok := m.view()
	if !ok || len(v.Lists) == 0 {
		return nil
	}
	idx := 0
	for i, s := range v.Lists {
		if s.ID == m.listID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(v.Lists)) % len(v.Lists)
	next := v.Lists[idx].ID
	if next == m.listID {
		return nil
	}
	m.listID, m.cursor = next, 0
	m.loading = true
	return m.load(next, false)
}

func (m *tuiModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	v, ok := m.view()
	switch {
	case m.listID == "":
		b.WriteString(formatter.Header("arbor"))
		b.WriteString("\n" + formatter.Dim("No lists yet.") + "\n")
	case !ok || v.ActiveList == nil:
		b.WriteString(formatter.Header("arbor"))
		if m.loading {
			b.WriteString("\n" + formatter.Dim("Loading…") + "\n")
		} else {
			b.WriteString("\n" + formatter.Dim("List unavailable.") + "\n")
		}
	default:
		m.renderList(&b, v)
	}

	b.WriteString("\n")
	switch {
	case m.prompt != nil:
		b.WriteString(formatter.StyleYellow.Render(m.prompt.text))
	case m.inputKind != inputNone:
		b.WriteString(formatter.Dim(inputTitles[m.inputKind]) + "\n" + m.input.View())
	case m.status != "" && m.statusErr:
		b.WriteString(formatter.StyleRed.Render(m.status))
	case m.status != "":
		b.WriteString(formatter.Dim(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *tuiModel) renderList(b *strings.Builder, v optimistic.View) {
	l := v.ActiveList
	title := l.Title
	for i, s := range v.Lists {
		if s.ID == l.ID {
			title = fmt.Sprintf("%s (%d/%d)", l.Title, i+1, len(v.Lists))
			break
		}
	}
	b.WriteString(formatter.Header(title))
	b.WriteString("\n")

	pending, completed := "pending", "completed"
	if m.mode == domain.ViewPending {
		pending = formatter.Bold("[pending]")
	} else {
		completed = formatter.Bold("[completed]")
	}
	b.WriteString(pending + "  " + completed)
	if v.Stale {
		b.WriteString("  " + formatter.StyleYellow.Render("(out of sync, press r)"))
	}
	b.WriteString("\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(formatter.Dim("Nothing here.") + "\n")
	}
	for i, line := range formatter.RenderTreeLines(rows) {
		if i == m.cursor {
			b.WriteString(formatter.StyleCursor.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
	done := tree.CountByStatus(l.Items, true)
	b.WriteString(formatter.RenderProgress(done, tree.CountNodes(l.Items), 16))
	b.WriteString("  ")
	b.WriteString(formatter.FormatCounts(tree.CountByStatus(l.Items, false), done))
	b.WriteString("\n")
}

func (m *tuiModel) helpLine() string {
	parts := make([]string, 0, len(m.keys.shortHelp()))
	for _, k := range m.keys.shortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}
