package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/Veraticus/pinpoint/internal/tui/themes"
)

// State represents the current screen.
type State int

// Screens.
const (
	StateInput State = iota
	StateVerifying
	StateResult
	StateHistory
)

const (
	fieldAddress = iota
	fieldName
)

// Model holds the TUI state.
type Model struct {
	ctx      context.Context
	lastErr  error
	result   *model.VerificationRecord
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model
	address  textinput.Model
	name     textinput.Model
	history  []service.StoredRecord
	config   Config
	state    State
	focus    int
	verified int
	width    int
	height   int
	quitting bool
}

// New creates the model.
func New(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	address := textinput.New()
	address.Placeholder = "Flat 302, Sri Sai Residency, Madhapur 500081"
	address.Prompt = "Address  › "
	address.CharLimit = 500

	name := textinput.New()
	name.Placeholder = "optional"
	name.Prompt = "Customer › "
	name.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.FocusedPrompt

	m := Model{
		ctx:     ctx,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		address: address,
		name:    name,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.resize()
	m.setFocus(fieldAddress)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case verifiedMsg:
		m.state = StateResult
		m.lastErr = msg.err
		rec := msg.record
		m.result = &rec
		if msg.err == nil {
			m.verified++
		}
		return m, nil

	case historyLoadedMsg:
		m.state = StateHistory
		m.lastErr = msg.err
		m.history = msg.records
		return m, nil

	case spinner.TickMsg:
		if m.state != StateVerifying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case StateVerifying:
		return m, nil

	case StateInput:
		switch {
		case key.Matches(msg, m.keymap.Submit):
			return m.submit()
		case key.Matches(msg, m.keymap.NextField):
			m.setFocus(1 - m.focus)
			return m, nil
		case key.Matches(msg, m.keymap.History) && m.config.History != nil:
			return m, m.loadHistoryCmd()
		}
		return m.updateInputs(msg)

	case StateResult:
		switch {
		case key.Matches(msg, m.keymap.New), key.Matches(msg, m.keymap.Submit):
			m.reset()
			return m, textinput.Blink
		case key.Matches(msg, m.keymap.Back):
			m.state = StateInput
			m.setFocus(fieldAddress)
			return m, textinput.Blink
		case key.Matches(msg, m.keymap.History) && m.config.History != nil:
			return m, m.loadHistoryCmd()
		}

	case StateHistory:
		if key.Matches(msg, m.keymap.Back) || key.Matches(msg, m.keymap.New) {
			m.state = StateInput
			m.lastErr = nil
			m.setFocus(fieldAddress)
			return m, textinput.Blink
		}
	}

	return m, nil
}

// submit validates the form and starts a verification.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := model.RawInput{
		Address:      strings.TrimSpace(m.address.Value()),
		CustomerName: strings.TrimSpace(m.name.Value()),
	}
	if err := raw.Validate(); err != nil {
		m.lastErr = err
		return m, nil
	}

	m.lastErr = nil
	m.result = nil
	m.state = StateVerifying
	m.address.Blur()
	m.name.Blur()
	return m, tea.Batch(m.spinner.Tick, m.verifyCmd(raw))
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != StateInput {
		return m, nil
	}
	var cmds [2]tea.Cmd
	m.address, cmds[0] = m.address.Update(msg)
	m.name, cmds[1] = m.name.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m *Model) setFocus(field int) {
	m.focus = field
	if field == fieldAddress {
		m.address.Focus()
		m.name.Blur()
		m.address.PromptStyle = m.theme.FocusedPrompt
		m.name.PromptStyle = m.theme.BlurredPrompt
		return
	}
	m.name.Focus()
	m.address.Blur()
	m.name.PromptStyle = m.theme.FocusedPrompt
	m.address.PromptStyle = m.theme.BlurredPrompt
}

func (m *Model) reset() {
	m.address.Reset()
	m.name.Reset()
	m.result = nil
	m.lastErr = nil
	m.state = StateInput
	m.setFocus(fieldAddress)
}

func (m *Model) resize() {
	width := max(m.width-20, 20)
	m.address.Width = width
	m.name.Width = width
	m.help.Width = m.width
}

// State returns the current screen.
func (m Model) State() State { return m.state }

// Result returns the last verification, if any.
func (m Model) Result() (model.VerificationRecord, bool) {
	if m.result == nil {
		return model.VerificationRecord{}, false
	}
	return *m.result, true
}

// Err returns the last error shown to the user.
func (m Model) Err() error { return m.lastErr }

func isEmptyAddress(err error) bool {
	return errors.Is(err, model.ErrEmptyAddress)
}
