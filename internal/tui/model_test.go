package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/Veraticus/pinpoint/internal/tui/themes"
)

type fakeVerifier struct {
	err    error
	record model.VerificationRecord
	inputs []model.RawInput
	mu     sync.Mutex
}

func (f *fakeVerifier) Verify(_ context.Context, raw model.RawInput) (model.VerificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, raw)
	return f.record, f.err
}

type historyStore struct {
	records []service.StoredRecord
	filter  service.RecordFilter
}

func (h *historyStore) SaveRecord(context.Context, service.StoredRecord) error { return nil }

func (h *historyStore) ListRecords(_ context.Context, f service.RecordFilter) ([]service.StoredRecord, error) {
	h.filter = f
	return h.records, nil
}

func (h *historyStore) Migrate(context.Context) error { return nil }

func (h *historyStore) Close() error { return nil }

func puneRecord() model.VerificationRecord {
	rec := model.VerificationRecord{
		Status:            model.StatusSuccess,
		CustomerCleanName: "Ravi Kumar",
		AddressLine1:      "12, MG Road, Pune",
		District:          "Pune",
		State:             "Maharashtra",
		AddressQuality:    model.QualityBad,
		Remarks:           "Caution: Ambiguous text: xyz; CRITICAL ALERT: No house, flat or plot number found",
	}
	rec.SetPIN("411001")
	return rec
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// drain runs cmd and any batched commands, feeding each message back into m.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_VerifyFlow(t *testing.T) {
	verifier := &fakeVerifier{record: puneRecord()}
	m := New(context.Background(), WithVerifier(verifier))

	m = typeText(m, "12 MG Road Pune 411001")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "ravi kumar")

	m, cmd := press(m, tea.KeyEnter)
	require.Equal(t, StateVerifying, m.State())
	assert.Contains(t, m.View(), "Verifying address")

	m = drain(t, m, cmd)
	require.Equal(t, StateResult, m.State())

	require.Len(t, verifier.inputs, 1)
	assert.Equal(t, "12 MG Road Pune 411001", verifier.inputs[0].Address)
	assert.Equal(t, "ravi kumar", verifier.inputs[0].CustomerName)

	rec, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "411001", rec.PINValue())

	view := m.View()
	assert.Contains(t, view, "12, MG Road, Pune")
	assert.Contains(t, view, "Maharashtra")
	assert.Contains(t, view, "Caution: Ambiguous text: xyz")
	assert.Contains(t, view, "CRITICAL ALERT: No house, flat or plot number found")
	assert.Contains(t, view, "1 verified this session")
}

func TestModel_EmptyAddress(t *testing.T) {
	verifier := &fakeVerifier{}
	m := New(context.Background(), WithVerifier(verifier))

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, StateInput, m.State())
	assert.ErrorIs(t, m.Err(), model.ErrEmptyAddress)
	assert.Contains(t, m.View(), "Address is required")
	assert.Empty(t, verifier.inputs)
}

func TestModel_FailedVerification(t *testing.T) {
	verifier := &fakeVerifier{
		record: model.ErrorRecord(model.RawInput{}, "Text extraction service rejected the API key"),
		err:    errors.New("unauthorized"),
	}
	m := New(context.Background(), WithVerifier(verifier))

	m = typeText(m, "Plot 9, Sector 4")
	m, cmd := press(m, tea.KeyEnter)
	m = drain(t, m, cmd)

	assert.Equal(t, StateResult, m.State())
	assert.Error(t, m.Err())
	view := m.View()
	assert.Contains(t, view, "Verification failed")
	assert.Contains(t, view, "Text extraction service rejected the API key")
	assert.Contains(t, view, "0 verified this session")
}

func TestModel_NewAddressAfterResult(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{record: puneRecord()}))
	m = typeText(m, "12 MG Road")
	m, cmd := press(m, tea.KeyEnter)
	m = drain(t, m, cmd)
	require.Equal(t, StateResult, m.State())

	m, _ = press(m, tea.KeyCtrlN)
	assert.Equal(t, StateInput, m.State())
	assert.Empty(t, m.address.Value())
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestModel_BackKeepsInput(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{record: puneRecord()}))
	m = typeText(m, "12 MG Road")
	m, cmd := press(m, tea.KeyEnter)
	m = drain(t, m, cmd)

	m, _ = press(m, tea.KeyEsc)
	assert.Equal(t, StateInput, m.State())
	assert.Equal(t, "12 MG Road", m.address.Value())
}

func TestModel_History(t *testing.T) {
	store := &historyStore{records: []service.StoredRecord{{
		Record:    puneRecord(),
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}}}
	m := New(context.Background(), WithVerifier(&fakeVerifier{}), WithHistory(store, 5))

	m, cmd := press(m, tea.KeyCtrlR)
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	assert.Equal(t, StateHistory, m.State())
	assert.Equal(t, 5, store.filter.Limit)
	view := m.View()
	assert.Contains(t, view, "Recent verifications")
	assert.Contains(t, view, "411001")
	assert.Contains(t, view, "12, MG Road, Pune")

	m, _ = press(m, tea.KeyEsc)
	assert.Equal(t, StateInput, m.State())
}

func TestModel_HistoryDisabled(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{}))
	m, _ = press(m, tea.KeyCtrlR)
	assert.Equal(t, StateInput, m.State())
}

func TestModel_IgnoresKeysWhileVerifying(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{record: puneRecord()}))
	m = typeText(m, "12 MG Road")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "more text")
	assert.Equal(t, "12 MG Road", m.address.Value())
	assert.Equal(t, StateVerifying, m.State())
}

func TestModel_Quit(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{}))
	m, cmd := press(m, tea.KeyCtrlC)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_HelpAndResize(t *testing.T) {
	m := New(context.Background(), WithVerifier(&fakeVerifier{}), WithSize(100, 30))
	assert.Equal(t, 80, m.address.Width)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 100, m.address.Width)

	m, _ = press(m, tea.KeyF1)
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "switch field")
}

func TestRun_RequiresVerifier(t *testing.T) {
	err := Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verifier is required")
}

func TestThemes(t *testing.T) {
	assert.Equal(t, themes.CatppuccinMocha.Primary, themes.GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, themes.Default.Primary, themes.GetTheme("unknown").Primary)
	assert.Equal(t, themes.Default.StatusSuccess.GetForeground(), themes.Default.Quality(model.QualityGood).GetForeground())
	assert.Equal(t, themes.Default.StatusError.GetForeground(), themes.Default.Quality(model.QualityVeryBad).GetForeground())
}
