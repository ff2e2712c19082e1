package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/codetype-dev/codetype/internal/model"
	"github.com/codetype-dev/codetype/internal/scoring"
	"github.com/codetype-dev/codetype/internal/session"
	"github.com/codetype-dev/codetype/internal/stats"
	"github.com/codetype-dev/codetype/internal/typinglog"
)

type phase int

const (
	phasePick phase = iota
	phaseType
	phaseResult
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	explainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

type tickMsg time.Time

type historyMsg struct {
	snapshot stats.Snapshot
	err      error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	books    []model.StudyBook
	settings session.Settings
	repo     typinglog.Store
	log      *zap.Logger

	width  int
	height int

	phase  phase
	picker table.Model

	sess        *session.Session
	targetRunes []rune
	inputRunes  []rune

	lastResult scoring.Result
	savedBook  model.StudyBook
	expired    bool

	snapshot   stats.Snapshot
	hasHistory bool
}

// NewModel constructs the practice UI over the given catalog and log
// repository.
func NewModel(books []model.StudyBook, settings session.Settings, repo typinglog.Store, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		books:    books,
		settings: settings,
		repo:     repo,
		log:      log,
		phase:    phasePick,
		picker:   buildPicker(books, 0, 0),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadHistory
}

func (m *Model) loadHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	records, err := m.repo.List(ctx, model.StatsConfig{})
	if err != nil {
		return historyMsg{err: err}
	}
	return historyMsg{snapshot: stats.Aggregate(records)}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker = buildPicker(m.books, m.width, m.height)
		return m, nil
	case historyMsg:
		if msg.err != nil {
			m.log.Warn("failed to load attempt history", zap.Error(msg.err))
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.hasHistory = msg.snapshot.Attempts > 0
		return m, nil
	case tickMsg:
		if m.phase != phaseType || m.sess == nil {
			return m, nil
		}
		if m.sess.TimeExpired() {
			m.expired = true
			return m, m.finishAttempt()
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.phase {
	case phasePick:
		return m.handlePickKey(msg)
	case phaseType:
		return m.handleTypeKey(msg)
	default:
		return m.handleResultKey(msg)
	}
}

func (m *Model) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		idx := m.picker.Cursor()
		if idx < 0 || idx >= len(m.books) {
			return m, nil
		}
		return m, m.startAttempt(m.books[idx])
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) startAttempt(book model.StudyBook) tea.Cmd {
	m.sess = session.New(book, m.settings)
	if err := m.sess.Start(); err != nil {
		// New sessions always start; anything else is a programming error.
		m.log.Error("failed to start session", zap.Error(err))
		return nil
	}
	m.targetRunes = []rune(strings.ReplaceAll(book.Question, "\r\n", "\n"))
	m.inputRunes = nil
	m.expired = false
	m.phase = phaseType
	return tick()
}

func (m *Model) handleTypeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if err := m.sess.Abandon(); err != nil {
			m.log.Error("failed to abandon session", zap.Error(err))
		}
		m.sess = nil
		m.phase = phasePick
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if m.settings.AllowBackspace && len(m.inputRunes) > 0 {
			m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
		}
		return m, nil
	case tea.KeyEnter:
		return m, m.typeRunes([]rune{'\n'})
	case tea.KeyTab:
		return m, m.typeRunes([]rune{'\t'})
	case tea.KeySpace:
		return m, m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m, m.typeRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	for _, r := range runes {
		if len(m.inputRunes) >= len(m.targetRunes) {
			break
		}
		expected := m.targetRunes[len(m.inputRunes)]
		if m.settings.StrictMode && r != expected {
			// Strict mode: the cursor does not advance past a mistake.
			continue
		}
		m.inputRunes = append(m.inputRunes, r)
	}
	if len(m.inputRunes) == len(m.targetRunes) {
		return m.finishAttempt()
	}
	return nil
}

func (m *Model) finishAttempt() tea.Cmd {
	result, err := m.sess.Complete(string(m.inputRunes))
	if err != nil {
		m.log.Error("failed to complete session", zap.Error(err))
		m.sess = nil
		m.phase = phasePick
		return nil
	}
	book := m.sess.Book()
	rec := model.LogRecord{
		ID:           m.sess.ID(),
		StudyBookID:  book.ID,
		StartedAt:    m.sess.StartTime(),
		DurationMs:   result.DurationMs,
		TotalChars:   result.TotalChars,
		CorrectChars: result.CorrectChars,
		WPM:          result.WPM,
		Accuracy:     result.Accuracy,
		Language:     book.Language,
		Score:        scoring.CompositeScore(result.WPM, result.Accuracy),
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := m.repo.Save(ctx, rec); err != nil {
		m.log.Error("failed to save typing log", zap.Error(err))
	}

	m.lastResult = result
	m.savedBook = book
	m.sess = nil
	m.phase = phaseResult
	return m.loadHistory
}

func (m *Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.phase = phasePick
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case phasePick:
		return m.viewPicker()
	case phaseType:
		return m.viewTyping()
	default:
		return m.viewResult()
	}
}

func (m *Model) viewPicker() string {
	title := titleStyle.Render("codetype — pick a snippet")
	body := title + "\n\n" + m.picker.View()
	segments := []string{"enter start · q quit"}
	if m.savedBook.ID != "" {
		segments = append(segments, fmt.Sprintf("last %.1f WPM · %.1f%%",
			m.lastResult.WPM, m.lastResult.Accuracy))
	}
	if m.hasHistory {
		segments = append(segments, fmt.Sprintf("all-time %.1f WPM · %.1f%% · %s",
			m.snapshot.AverageWPM, m.snapshot.AverageAccuracy, m.snapshot.Rank))
	}
	return m.place(body, footerStyle.Render(strings.Join(segments, "  |  ")))
}

func (m *Model) viewTyping() string {
	if len(m.targetRunes) == 0 {
		return ""
	}
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	styledRunes := buildStyledRunes(m.targetRunes, m.inputRunes, cursorIndex)
	content := renderStyledRunes(styledRunes)
	if m.width > 0 {
		contentWidth := int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		content = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styledRunes, contentWidth))
	}
	return m.place(content, footerStyle.Render(m.typingFooter()))
}

func (m *Model) typingFooter() string {
	progress := int(float64(len(m.inputRunes)) / float64(len(m.targetRunes)) * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if elapsed, ok := m.sess.Elapsed(); ok {
		if limit := m.settings.TimeLimitSeconds; limit > 0 {
			segments = append(segments, fmt.Sprintf("%ds / %ds", int(elapsed.Seconds()), limit))
		} else {
			segments = append(segments, fmt.Sprintf("%ds", int(elapsed.Seconds())))
		}
	}
	segments = append(segments, "esc abandon")
	return strings.Join(segments, "  ")
}

func (m *Model) viewResult() string {
	res := m.lastResult
	status := "completed"
	if !res.IsComplete {
		status = "incomplete"
	}
	if m.expired {
		status = "time expired"
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s · %s", m.savedBook.Language, status)),
		"",
		fmt.Sprintf("Accuracy  %.2f%%", res.Accuracy),
		fmt.Sprintf("WPM       %.2f", res.WPM),
		fmt.Sprintf("CPM       %.2f", res.CPM),
		fmt.Sprintf("Chars     %d/%d", res.CorrectChars, res.TotalChars),
	}
	if m.savedBook.Explanation != "" {
		lines = append(lines, "", explainStyle.Render(m.savedBook.Explanation))
	}
	body := strings.Join(lines, "\n")
	return m.place(body, footerStyle.Render("enter next · q quit"))
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func buildPicker(books []model.StudyBook, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Language", Width: 12},
		{Title: "Snippet", Width: 48},
		{Title: "Chars", Width: 6},
	}
	rows := make([]table.Row, 0, len(books))
	for _, book := range books {
		preview := strings.ReplaceAll(book.Question, "\n", " ")
		if len([]rune(preview)) > 46 {
			preview = string([]rune(preview)[:43]) + "..."
		}
		rows = append(rows, table.Row{
			book.Language,
			preview,
			fmt.Sprintf("%d", len([]rune(book.Question))),
		})
	}
	tableHeight := len(books) + 1
	if height > 6 && tableHeight > height-6 {
		tableHeight = height - 6
	}
	if tableHeight < 2 {
		tableHeight = 2
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(tableHeight),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	if width > 0 {
		t.SetWidth(width)
	}
	return t
}
