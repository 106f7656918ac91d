package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

func (m Model) verifyCmd(raw model.RawInput) tea.Cmd {
	ctx := m.ctx
	verifier := m.config.Verifier
	return func() tea.Msg {
		if verifier == nil {
			return verifiedMsg{err: fmt.Errorf("verifier not configured")}
		}
		rec, err := verifier.Verify(ctx, raw)
		return verifiedMsg{record: rec, err: err}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	ctx := m.ctx
	store := m.config.History
	limit := m.config.HistoryLimit
	return func() tea.Msg {
		if store == nil {
			return historyLoadedMsg{err: fmt.Errorf("history is not enabled")}
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		records, err := store.ListRecords(ctx, service.RecordFilter{Limit: limit})
		return historyLoadedMsg{records: records, err: err}
	}
}
