package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/reconcile"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateInput:
		body = m.inputView()
	case StateVerifying:
		body = m.inputView() + "\n\n" + m.spinner.View() + " " + m.theme.StatusPending.Render("Verifying address...")
	case StateResult:
		body = m.resultView()
	case StateHistory:
		body = m.historyView()
	}

	header := m.theme.Title.Render("📍 pinpoint") +
		m.theme.Muted.Render(fmt.Sprintf("  %d verified this session", m.verified))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", m.help.View(m.keymap))
}

func (m Model) inputView() string {
	lines := []string{m.address.View(), m.name.View()}
	if m.lastErr != nil {
		msg := m.lastErr.Error()
		if isEmptyAddress(m.lastErr) {
			msg = "Address is required"
		}
		lines = append(lines, "", m.theme.StatusError.Render("✗ "+msg))
	}
	return strings.Join(lines, "\n")
}

func (m Model) resultView() string {
	if m.result == nil {
		return m.theme.StatusError.Render("✗ " + m.lastErr.Error())
	}
	rec := *m.result
	if rec.Status == model.StatusError {
		return m.theme.RoundedBox.BorderForeground(lipgloss.Color("#ef4444")).Render(
			m.theme.StatusError.Render("Verification failed") + "\n\n" + m.theme.Normal.Render(rec.Message))
	}

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			value = m.theme.Muted.Render("-")
		}
		b.WriteString(m.theme.Label.Render(label) + value + "\n")
	}
	field("Customer", rec.CustomerCleanName)
	field("Address", rec.AddressLine1)
	field("Landmark", rec.Landmark)
	field("Post office", rec.PostOffice)
	field("Tehsil", rec.Tehsil)
	field("District", rec.District)
	field("State", rec.State)
	field("PIN", m.theme.Bold.Render(rec.PINValue()))
	field("Quality", m.theme.Quality(rec.AddressQuality).Render(string(rec.AddressQuality)))
	field("Location", rec.LocationType)
	field("Suitability", string(rec.LocationSuitability))
	b.WriteString("\n")

	for _, r := range reconcile.ParseRemarks(rec.Remarks) {
		switch r.Severity {
		case reconcile.SeverityCritical:
			b.WriteString(m.theme.StatusError.Render("✗ " + r.String()))
		case reconcile.SeverityCaution:
			b.WriteString(m.theme.StatusWarning.Render("! " + r.String()))
		default:
			b.WriteString(m.theme.StatusInfo.Render("• " + r.Text))
		}
		b.WriteString("\n")
	}

	return m.theme.RoundedBox.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) historyView() string {
	if m.lastErr != nil {
		return m.theme.StatusError.Render("✗ " + m.lastErr.Error())
	}
	if len(m.history) == 0 {
		return m.theme.Muted.Render("No verifications recorded yet.")
	}

	lines := []string{m.theme.Subtitle.Render("Recent verifications")}
	for _, r := range m.history {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			m.theme.Muted.Render(r.CreatedAt.Local().Format("Jan 2 15:04")),
			m.theme.Bold.Render(fmt.Sprintf("%-6s", r.Record.PINValue())),
			m.theme.Quality(r.Record.AddressQuality).Render(fmt.Sprintf("%-9s", r.Record.AddressQuality)),
			r.Record.AddressLine1,
		))
	}
	return strings.Join(lines, "\n")
}
