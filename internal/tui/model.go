// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/session"
	"github.com/verte-zerg/wpmtest/internal/stats"
)

const (
	// DefaultPause is how long a completed round stays on screen.
	DefaultPause = 1500 * time.Millisecond
	// DefaultTick is the live WPM refresh interval.
	DefaultTick = 200 * time.Millisecond

	instructions    = "Type the text below. Press ESC to exit."
	roundDone       = "Round complete! Press any key to continue."
	exitPrompt      = "Press any key to exit..."
	contentRatio    = 0.70
	wrongSpaceGlyph = '_'
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	wpmStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	resultValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Options tunes the loop timing and logging.
type Options struct {
	Pause  time.Duration
	Tick   time.Duration
	Logger *log.Logger
}

type tickMsg time.Time

type advanceMsg struct {
	id int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	sess *session.Session
	opts Options
	log  *log.Logger
	help help.Model

	width  int
	height int

	wpm     float64
	pauseID int

	finished    bool
	interrupted bool
	result      model.FinalResult
}

// NewModel constructs a typing TUI model around sess.
func NewModel(sess *session.Session, opts Options) *Model {
	if opts.Pause <= 0 {
		opts.Pause = DefaultPause
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Model{
		sess: sess,
		opts: opts,
		log:  logger,
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.wpm = m.sess.LiveWPM()
		return m, m.tick()
	case advanceMsg:
		if msg.id != m.pauseID || m.sess.State() != session.RoundComplete {
			return m, nil
		}
		m.advance()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.finished {
		return m, tea.Quit
	}
	if key.Matches(msg, keys.Interrupt) {
		m.interrupted = true
		m.log.Printf("interrupted in round %d", m.sess.Round())
		return m, tea.Quit
	}

	if m.sess.State() == session.RoundComplete {
		if ev := Classify(msg); ev.Kind == session.EventCancel {
			m.sess.Apply(ev)
			m.finish()
			return m, nil
		}
		// Any other key ends the pause early and is not typed.
		m.advance()
		return m, nil
	}

	state := m.sess.State()
	for _, ev := range classifyAll(msg) {
		state = m.sess.Apply(ev)
		if state != session.Active {
			break
		}
	}
	m.wpm = m.sess.LiveWPM()

	switch state {
	case session.RoundComplete:
		m.pauseID++
		correct, total := m.sess.Counters()
		m.log.Printf("round %d complete: %d/%d correct, %.2f wpm", m.sess.Round(), correct, total, m.wpm)
		id := m.pauseID
		return m, tea.Tick(m.opts.Pause, func(time.Time) tea.Msg {
			return advanceMsg{id: id}
		})
	case session.Terminated:
		m.finish()
	}
	return m, nil
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) advance() {
	m.sess.Advance()
	m.wpm = m.sess.LiveWPM()
	m.log.Printf("round %d started: %q", m.sess.Round(), m.sess.Target())
}

func (m *Model) finish() {
	res, ok := m.sess.Result()
	if !ok {
		return
	}
	m.result = res
	m.finished = true
	m.log.Printf("session finished: %.2f wpm, %.2f%% accuracy (%s scoring)", res.WPM, res.Accuracy, res.Scoring)
}

// Result returns the final result once the user finished the test.
func (m *Model) Result() (model.FinalResult, bool) {
	return m.result, m.finished
}

// Interrupted reports whether the user aborted with ctrl+c.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return m.renderResults()
	}
	return m.renderTyping()
}

func (m *Model) renderTyping() string {
	snap := m.sess.Snapshot()
	target := []rune(snap.Target)
	typed := []rune(snap.Typed)
	cursorIndex := -1
	if len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	styled := buildStyledRunes(target, typed, cursorIndex)

	header := []string{
		headerStyle.Render(clampText(instructions, m.width)),
		wpmStyle.Render(clampText(fmt.Sprintf("WPM: %.2f", m.wpm), m.width)),
	}
	var footer []string
	if snap.State == session.RoundComplete {
		footer = append(footer, doneStyle.Render(clampText(roundDone, m.width)))
	}
	footer = append(footer, m.renderFooter(snap))
	if m.width > 0 {
		footer = append(footer, m.help.View(keys))
	}

	if m.width == 0 || m.height == 0 {
		lines, _ := wrapStyledRunes(styled, 0)
		return strings.Join(append(append(header, ""), append(lines, footer...)...), "\n")
	}

	contentWidth := max(1, int(float64(m.width)*contentRatio))
	lines, cursorLine := wrapStyledRunes(styled, contentWidth)
	avail := m.height - len(header) - len(footer) - 2
	lines = windowLines(lines, cursorLine, max(1, avail))
	content := lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(lines, "\n"))

	rows := append([]string{}, header...)
	rows = append(rows, "", content, "")
	rows = append(rows, footer...)
	if m.height < len(rows) {
		// Too short for the chrome; keep the phrase and the WPM line.
		rows = []string{header[1], content}
		if m.height < len(rows) {
			rows = []string{content}
		}
	}
	block := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

func (m *Model) renderFooter(snap session.Snapshot) string {
	if snap.Target == "" {
		return ""
	}
	done := min(len(snap.Typed), len(snap.Target))
	progress := int(float64(done) / float64(len(snap.Target)) * 100)
	segments := []string{
		fmt.Sprintf("Round %d", snap.Round),
		fmt.Sprintf("Progress %d%%", progress),
	}
	rounds := m.sess.Rounds()
	if len(rounds) > 0 {
		last := rounds[len(rounds)-1]
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", last.WPM, last.Accuracy))
		wpm, acc := sessionTotals(rounds)
		segments = append(segments, fmt.Sprintf("Session %.1f WPM · %.1f%%", wpm, acc))
	}
	return footerStyle.Render(clampText(strings.Join(segments, "  "), m.width))
}

func sessionTotals(rounds []model.RoundResult) (wpm, accuracy float64) {
	var correct, total int
	var elapsed time.Duration
	for _, r := range rounds {
		correct += r.Correct
		total += r.Total
		elapsed += r.Duration
	}
	return stats.RateFor(total, elapsed), stats.Accuracy(correct, total)
}

func (m *Model) renderResults() string {
	res := m.result
	speed := m.labeled("Your typing speed: ", fmt.Sprintf("%.2f WPM", res.WPM))
	accuracy := m.labeled("Accuracy: ", fmt.Sprintf("%.2f%%", res.Accuracy))
	prompt := footerStyle.Render(clampText(exitPrompt, m.width))

	var summary, table []string
	if len(res.Rounds) > 0 {
		summary = []string{
			footerStyle.Render(clampText(fmt.Sprintf("Scoring: %s · %d rounds completed", res.Scoring, len(res.Rounds)), m.width)),
			footerStyle.Render(clampText("WPM trend: "+stats.Sparkline(stats.RoundWPMs(res.Rounds)), m.width)),
		}
		table = m.roundTable(res.Rounds)
	}

	block := lipgloss.JoinVertical(lipgloss.Center, fitResults(m.height, speed, accuracy, prompt, summary, table)...)
	if m.width == 0 || m.height == 0 {
		return block
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

// labeled clamps label+value to the terminal width and styles the value part.
func (m *Model) labeled(label, value string) string {
	full := clampText(label+value, m.width)
	if len(full) <= len(label) {
		return full
	}
	return full[:len(label)] + resultValueStyle.Render(full[len(label):])
}

func (m *Model) roundTable(rounds []model.RoundResult) []string {
	var buf bytes.Buffer
	if err := stats.RenderRounds(&buf, rounds); err != nil {
		m.log.Printf("render rounds: %v", err)
		return nil
	}
	table := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i := range table {
		table[i] = headerStyle.Render(clampText(table[i], m.width))
	}
	return table
}

// fitResults lays out the results screen in at most height rows. The table
// shrinks first and goes away next. The scoring and trend lines follow, and
// the speed, accuracy and exit prompt rows go last. A height of 0 means
// unbounded.
func fitResults(height int, speed, accuracy, prompt string, summary, table []string) []string {
	top := []string{speed}
	acc := []string{accuracy}
	bottom := []string{prompt}

	full := stackSections(true, top, acc, summary, table, bottom)
	if height <= 0 || len(full) <= height {
		return full
	}
	if len(table) > 0 {
		// Keep the header and the latest rounds.
		if room := height - (len(full) - len(table)); room >= 2 {
			trimmed := append([]string{table[0]}, table[len(table)-(room-1):]...)
			return stackSections(true, top, acc, summary, trimmed, bottom)
		}
	}
	for _, spaced := range []bool{true, false} {
		if rows := stackSections(spaced, top, acc, summary, bottom); len(rows) <= height {
			return rows
		}
	}
	rows := []string{speed, accuracy, prompt}
	return rows[:min(len(rows), height)]
}

// stackSections joins non-empty sections, with a blank row between them
// when spaced is set.
func stackSections(spaced bool, sections ...[]string) []string {
	var rows []string
	for _, sec := range sections {
		if len(sec) == 0 {
			continue
		}
		if spaced && len(rows) > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, sec...)
	}
	return rows
}
