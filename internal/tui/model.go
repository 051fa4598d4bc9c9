// Package tui is the terminal front end: it shows the front of the due card,
// flips it on any key, and files it on y or n.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/review"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Align(lipgloss.Center)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	countsStyle  = lipgloss.NewStyle().Faint(true)
	defaultWidth = 60
)

type Model struct {
	ctx     context.Context
	session *review.Session
	title   string
	keys    keyMap
	help    help.Model
	width   int
	status  string
}

// New creates the model. title is shown on top, usually the deck path.
func New(ctx context.Context, session *review.Session, title string) Model {
	return Model{
		ctx:     ctx,
		session: session,
		title:   title,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   defaultWidth,
	}
}

// Run starts the program on the alternate screen and blocks until the
// learner quits.
func Run(ctx context.Context, session *review.Session, title string) error {
	p := tea.NewProgram(New(ctx, session, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-4, 100)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		st := m.session.State()
		switch {
		case !st.HasQueue:
			if key.Matches(msg, m.keys.Refill) {
				m.refill()
			}
		case st.Screen == review.Asking:
			m.status = ""
			if err := m.session.Reveal(); err != nil {
				m.status = err.Error()
			}
		case key.Matches(msg, m.keys.Yes):
			m.answer(true)
		case key.Matches(msg, m.keys.No):
			m.answer(false)
		}
	}
	return m, nil
}

func (m *Model) answer(recalled bool) {
	move, err := m.session.Answer(m.ctx, recalled)
	if err != nil {
		log.Err(err).Msg("answer-failed")
		m.status = errorStatus(err)
		return
	}
	m.status = ""
	if move.Graduated {
		m.status = "learned: " + move.Card.Front
	}
}

func (m *Model) refill() {
	moved, err := m.session.Refill(m.ctx)
	if err != nil {
		log.Err(err).Msg("refill-failed")
		m.status = errorStatus(err)
		return
	}
	if moved == 0 {
		m.status = "nothing to refill"
		return
	}
	m.status = fmt.Sprintf("moved %d cards into box 1", moved)
}

// errorStatus reports session refusals as they are. Anything else came from
// the store.
func errorStatus(err error) string {
	switch {
	case errors.Is(err, review.ErrNothingToReview),
		errors.Is(err, review.ErrNotRevealed),
		errors.Is(err, review.ErrReviewPending):
		return err.Error()
	default:
		return "could not save: " + err.Error()
	}
}

func (m Model) View() string {
	st := m.session.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	card := cardStyle.Width(m.width)
	if !st.HasQueue {
		b.WriteString(idleStyle.Render("Nothing to learn"))
		b.WriteString("\n")
	} else {
		b.WriteString(card.Render(st.Card.Front))
		b.WriteString("\n")
		if st.Screen == review.Checking {
			b.WriteString(card.Render(st.Card.Back))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.hint(st))
	b.WriteString("  ")
	b.WriteString(countsStyle.Render(counts(st)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) hint(st review.State) string {
	switch {
	case !st.HasQueue && st.CanRefill:
		return m.help.ShortHelpView([]key.Binding{m.keys.Refill, m.keys.Quit})
	case !st.HasQueue:
		return m.help.ShortHelpView([]key.Binding{m.keys.Quit})
	case st.Screen == review.Asking:
		return "Do you know this? " + m.help.ShortHelpView([]key.Binding{m.keys.Flip, m.keys.Quit})
	default:
		return "Did you know this? " + m.help.ShortHelpView([]key.Binding{m.keys.Yes, m.keys.No, m.keys.Quit})
	}
}

func counts(st review.State) string {
	parts := make([]string, len(st.Counts))
	for i, n := range st.Counts {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("boxes %s | stash %d | done %d", strings.Join(parts, " "), st.StashSize, st.DoneCount)
}
