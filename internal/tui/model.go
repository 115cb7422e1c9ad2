// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuitoeic/internal/logger"
	"github.com/verte-zerg/tuitoeic/internal/model"
	"github.com/verte-zerg/tuitoeic/internal/render"
	"github.com/verte-zerg/tuitoeic/internal/scoring"
	"github.com/verte-zerg/tuitoeic/internal/session"
)

// DefaultNarrowWidth is the terminal width below which panels become tabs.
const DefaultNarrowWidth = 100

// Loaded is the result of one fetch.
type Loaded struct {
	Exercise model.Exercise
	// Key is the catalog key the exercise was saved under, if any.
	Key string
}

// FetchFunc produces the next exercise.
type FetchFunc func(ctx context.Context) (Loaded, error)

// Options configures a Model.
type Options struct {
	Title       string
	NarrowWidth int
	// Instant checks the attempt as soon as every question is answered.
	Instant bool
	Fetch   FetchFunc
	Log     *logger.Logger
}

type loadedMsg struct {
	loaded Loaded
	err    error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	opts Options
	ctrl *session.Controller
	log  *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	key   string
	focus int

	passageVP       viewport.Model
	questionsVP     viewport.Model
	questionOffsets []int
	spinner         spinner.Model
}

// NewStatic builds a model over a fixed exercise.
func NewStatic(ex model.Exercise, opts Options) *Model {
	return newModel(session.NewStatic(ex), opts)
}

// NewDynamic builds a model that loads exercises through opts.Fetch.
func NewDynamic(opts Options) *Model {
	return newModel(session.NewDynamic(), opts)
}

func newModel(ctrl *session.Controller, opts Options) *Model {
	if opts.NarrowWidth <= 0 {
		opts.NarrowWidth = DefaultNarrowWidth
	}
	if opts.Title == "" {
		opts.Title = "TOEIC Practice"
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return &Model{
		opts:        opts,
		ctrl:        ctrl,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		passageVP:   viewport.New(0, 0),
		questionsVP: viewport.New(0, 0),
		spinner:     sp,
	}
}

// State returns a snapshot of the underlying session.
func (m *Model) State() session.State {
	return m.ctrl.Snapshot()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.ctrl.Variant() == session.Dynamic {
		return m.startGenerate()
	}
	m.refresh()
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh()
		return m, nil
	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil
	case spinner.TickMsg:
		if !m.ctrl.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancel()
		return m, tea.Quit
	}
	st := m.ctrl.Snapshot()
	if st.ConfirmPending {
		switch msg.String() {
		case "y", "Y", "enter":
			if m.ctrl.ConfirmCheck(m.narrow()) {
				m.questionsVP.GotoTop()
			}
		case "n", "N", "esc", "q":
			m.ctrl.CancelCheck()
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	switch key := msg.String(); key {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "tab", "shift+tab":
		m.ctrl.TogglePanel()
	case "up", "k", "down", "j":
		if st.ActivePanel == model.PanelQuestions {
			if key == "up" || key == "k" {
				m.moveFocus(-1)
			} else {
				m.moveFocus(1)
			}
		} else {
			m.passageVP, cmd = m.passageVP.Update(msg)
		}
	case "a", "b", "c", "d", "A", "B", "C", "D":
		m.selectOptionByID(strings.ToUpper(key))
	case "1", "2", "3", "4":
		m.selectOptionAt(int(key[0] - '1'))
	case "enter":
		if m.ctrl.Check(m.narrow()) == session.CheckDone {
			m.questionsVP.GotoTop()
		}
	case "r":
		if m.ctrl.Retry() {
			m.resetView()
		}
	case "g":
		cmd = m.startGenerate()
	default:
		if st.ActivePanel == model.PanelQuestions {
			m.questionsVP, cmd = m.questionsVP.Update(msg)
		} else {
			m.passageVP, cmd = m.passageVP.Update(msg)
		}
	}
	m.refresh()
	return m, cmd
}

func (m *Model) startGenerate() tea.Cmd {
	if m.opts.Fetch == nil || !m.ctrl.BeginGenerate() {
		return nil
	}
	m.key = ""
	m.resetView()
	m.refresh()
	fetch := m.opts.Fetch
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		loaded, err := fetch(ctx)
		return loadedMsg{loaded: loaded, err: err}
	})
}

func (m *Model) handleLoaded(msg loadedMsg) {
	if !m.ctrl.CompleteGenerate(msg.loaded.Exercise, msg.err) {
		return
	}
	if msg.err != nil {
		m.log.Error("failed to load exercise", "error", msg.err)
	} else {
		m.key = msg.loaded.Key
		m.log.Info("exercise loaded", "key", msg.loaded.Key, "questions", len(msg.loaded.Exercise.Questions))
	}
	m.resetView()
	m.refresh()
}

func (m *Model) focusedQuestion() (model.Question, bool) {
	st := m.ctrl.Snapshot()
	if st.Exercise == nil || m.focus >= len(st.Exercise.Questions) {
		return model.Question{}, false
	}
	return st.Exercise.Questions[m.focus], true
}

// selectOptionByID answers the focused question with the option labeled id.
func (m *Model) selectOptionByID(id string) {
	q, ok := m.focusedQuestion()
	if !ok {
		return
	}
	if _, ok := q.Option(id); !ok {
		return
	}
	m.selectOption(q, id)
}

// selectOptionAt answers the focused question with the option at index.
func (m *Model) selectOptionAt(index int) {
	q, ok := m.focusedQuestion()
	if !ok || index < 0 || index >= len(q.Options) {
		return
	}
	m.selectOption(q, q.Options[index].ID)
}

func (m *Model) selectOption(q model.Question, optionID string) {
	m.ctrl.SelectOption(q.ID, optionID)
	if m.opts.Instant {
		after := m.ctrl.Snapshot()
		if after.Answered() == after.Total && m.ctrl.Check(m.narrow()) == session.CheckDone {
			m.questionsVP.GotoTop()
		}
	}
}

func (m *Model) moveFocus(delta int) {
	st := m.ctrl.Snapshot()
	if st.Exercise == nil || len(st.Exercise.Questions) == 0 {
		return
	}
	m.focus += delta
	if m.focus < 0 {
		m.focus = 0
	}
	if last := len(st.Exercise.Questions) - 1; m.focus > last {
		m.focus = last
	}
	m.refresh()
	m.ensureFocusVisible()
}

func (m *Model) ensureFocusVisible() {
	if m.focus >= len(m.questionOffsets) {
		return
	}
	offset := m.questionOffsets[m.focus]
	if offset < m.questionsVP.YOffset || offset >= m.questionsVP.YOffset+m.questionsVP.Height {
		m.questionsVP.SetYOffset(offset)
	}
}

func (m *Model) resetView() {
	m.focus = 0
	m.passageVP.GotoTop()
	m.questionsVP.GotoTop()
}

func (m *Model) narrow() bool {
	return m.width < m.opts.NarrowWidth
}

func (m *Model) panelWidths() (int, int) {
	if m.narrow() {
		return m.width, m.width
	}
	passage := m.width * 55 / 100
	questions := m.width - passage - 3
	if questions < 1 {
		questions = 1
	}
	return passage, questions
}

func (m *Model) layoutHeights() (bodyHeight, viewportHeight int) {
	bodyHeight = m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	navHeight := 1
	if m.narrow() {
		navHeight = lipgloss.Height(activeNavStyle.Render("X"))
	}
	viewportHeight = bodyHeight - navHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	return bodyHeight, viewportHeight
}

func (m *Model) updateLayout() {
	pw, qw := m.panelWidths()
	_, vh := m.layoutHeights()
	m.passageVP.Width = pw
	m.passageVP.Height = vh
	m.questionsVP.Width = qw
	m.questionsVP.Height = vh
}

func (m *Model) refresh() {
	st := m.ctrl.Snapshot()
	if st.Exercise == nil || m.width == 0 {
		m.questionOffsets = nil
		return
	}
	pw, qw := m.panelWidths()
	m.passageVP.SetContent(renderPassage(st.Exercise.Passage, pw))
	content, offsets := renderQuestions(st, m.focus, qw)
	m.questionsVP.SetContent(content)
	m.questionOffsets = offsets
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	st := m.ctrl.Snapshot()
	if st.ConfirmPending {
		return fitLines(m.renderConfirm(st), m.width, m.height)
	}
	bodyHeight, _ := m.layoutHeights()
	var body string
	switch {
	case st.Exercise == nil:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderStatus(st))
	case m.narrow():
		body = m.renderNarrow(st)
	default:
		body = m.renderWide(st, bodyHeight)
	}
	return strings.Join([]string{
		fitLines(truncateLine(m.renderHeader(st), m.width), m.width, 1),
		fitLines(body, m.width, bodyHeight),
		fitLines(truncateLine(m.renderFooter(st), m.width), m.width, 1),
	}, "\n")
}

func (m *Model) renderHeader(st session.State) string {
	segments := []string{titleStyle.Render(m.opts.Title)}
	if st.Exercise != nil && st.Exercise.Passage.Title != "" {
		segments = append(segments, mutedStyle.Render(st.Exercise.Passage.Title))
	}
	if m.key != "" {
		segments = append(segments, mutedStyle.Render("saved as "+m.key))
	}
	if st.Checked {
		segments = append(segments, badgeStyle.Render(fmt.Sprintf("Score: %d / %d", st.Score, st.Total)))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter(st session.State) string {
	dynamic := m.ctrl.Variant() == session.Dynamic
	var segments []string
	switch {
	case st.Loading:
		segments = []string{"q: quit"}
	case st.Exercise == nil:
		if dynamic {
			segments = append(segments, "g: generate")
		}
		segments = append(segments, "q: quit")
	case st.Checked:
		segments = []string{"r: retry"}
		if dynamic {
			segments = append(segments, "g: next exercise")
		}
		segments = append(segments, "tab: switch panel", "j/k: question", "q: quit")
	default:
		segments = []string{"a-d/1-4: answer", "j/k: question", "tab: switch panel", "enter: check"}
		if !dynamic {
			segments = append(segments, "r: reset")
		}
		segments = append(segments, "q: quit")
	}
	if st.Exercise != nil && !st.Checked {
		segments = append(segments, fmt.Sprintf("answered %d/%d", st.Answered(), st.Total))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderStatus(st session.State) string {
	switch st.Phase {
	case session.Loading:
		return m.spinner.View() + " Generating a new exercise..."
	case session.Error:
		return errorStyle.Render(st.LastError) + "\n\n" + mutedStyle.Render("Press g to try again")
	default:
		return mutedStyle.Render("Press g to generate an exercise")
	}
}

func (m *Model) renderTabs(active model.Panel) string {
	tabs := []struct {
		label string
		panel model.Panel
	}{
		{"Passage", model.PanelPassage},
		{"Questions", model.PanelQuestions},
	}
	rendered := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		style := inactiveNavStyle
		if tab.panel == active {
			style = activeNavStyle
		}
		rendered = append(rendered, style.Render(tab.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderNarrow(st session.State) string {
	content := m.passageVP.View()
	if st.ActivePanel == model.PanelQuestions {
		content = m.questionsVP.View()
	}
	return m.renderTabs(st.ActivePanel) + "\n" + content
}

func (m *Model) renderWide(st session.State, bodyHeight int) string {
	pw, qw := m.panelWidths()
	left := panelLabel("Passage", st.ActivePanel == model.PanelPassage) + "\n" + m.passageVP.View()
	right := panelLabel("Questions", st.ActivePanel == model.PanelQuestions) + "\n" + m.questionsVP.View()
	sep := make([]string, bodyHeight)
	for i := range sep {
		sep[i] = separatorStyle.Render(" │ ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		fitLines(left, pw, bodyHeight),
		strings.Join(sep, "\n"),
		fitLines(right, qw, bodyHeight),
	)
}

func panelLabel(label string, active bool) string {
	if active {
		return accentStyle.Render("▸ " + label)
	}
	return mutedStyle.Render("  " + label)
}

func (m *Model) renderConfirm(st session.State) string {
	inner := modalInnerWidth(m.width)
	lines := []string{titleStyle.Render("Check answers")}
	lines = append(lines, "")
	for _, line := range render.Wrap(fmt.Sprintf("%d問中%d問しか回答していません。採点しますか？", st.Total, st.Answered()), inner) {
		lines = append(lines, textStyle.Render(line))
	}
	lines = append(lines, "", footerStyle.Render("y: check  n: keep answering"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderPassage(p model.Passage, width int) string {
	lines := render.Passage(p, width)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Role == render.RoleBlank {
			out = append(out, "")
			continue
		}
		out = append(out, roleStyle(line.Role).Render(line.Text))
	}
	return strings.Join(out, "\n")
}

// renderQuestions lays out every question and returns the first line index of each.
func renderQuestions(st session.State, focus, width int) (string, []int) {
	if st.Exercise == nil {
		return "", nil
	}
	questions := st.Exercise.Questions
	var lines []string
	offsets := make([]int, len(questions))
	for i, q := range questions {
		if i > 0 {
			lines = append(lines, "")
		}
		offsets[i] = len(lines)
		marker, qStyle := "  ", textStyle
		if i == focus {
			marker, qStyle = accentStyle.Render("› "), titleStyle
		}
		for j, line := range render.Wrap(fmt.Sprintf("Q%d. %s", q.ID, q.Text), width-2) {
			prefix := "  "
			if j == 0 {
				prefix = marker
			}
			lines = append(lines, prefix+qStyle.Render(line))
		}
		for _, opt := range q.Options {
			state := scoring.Classify(q, opt.ID, st.Answers, st.Checked)
			lines = append(lines, optionLines(opt, state, width)...)
		}
		if st.Checked {
			lines = append(lines, resultLines(q, st.Answers, width)...)
		}
	}
	return strings.Join(lines, "\n"), offsets
}

func optionLines(opt model.Option, state scoring.OptionState, width int) []string {
	style := optionStyle(state)
	text := fmt.Sprintf("%s (%s) %s", optionMarker(state), opt.ID, opt.Text)
	wrapped := render.Wrap(text, width-8)
	out := make([]string, 0, len(wrapped))
	for i, line := range wrapped {
		indent := "    "
		if i > 0 {
			indent = "        "
		}
		out = append(out, indent+style.Render(line))
	}
	return out
}

func resultLines(q model.Question, answers map[int]string, width int) []string {
	verdict := incorrectStyle.Render("✗ 不正解")
	if scoring.IsCorrect(q, answers) {
		verdict = correctStyle.Render("✓ 正解")
	} else if _, answered := answers[q.ID]; !answered {
		verdict = incorrectStyle.Render("✗ 未回答")
	}
	out := []string{"    " + verdict + mutedStyle.Render(fmt.Sprintf("  正解: (%s)", q.Correct))}
	if q.Explanation == "" {
		return out
	}
	out = append(out, "    "+accentStyle.Render("解説"))
	for _, line := range render.Wrap(q.Explanation, width-8) {
		out = append(out, "    "+explainStyle.Render(line))
	}
	return out
}
