package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pinpoint/internal/batch"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/reconcile"
	"github.com/Veraticus/pinpoint/internal/service"
)

// QualityStyle picks the color for an address quality tier.
func QualityStyle(q model.AddressQuality) lipgloss.Style {
	switch q {
	case model.QualityVeryGood, model.QualityGood:
		return SuccessStyle
	case model.QualityMedium:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// RenderRecord renders a verification record as a boxed field list with its
// remarks underneath.
func RenderRecord(rec model.VerificationRecord) string {
	if rec.Status == model.StatusError {
		return RenderBox("Verification Failed", FormatError(rec.Message))
	}

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			value = SubtleStyle.Render("-")
		}
		b.WriteString(LabelStyle.Render(label) + value + "\n")
	}

	field("Customer", rec.CustomerCleanName)
	field("Address", rec.AddressLine1)
	field("Landmark", rec.Landmark)
	field("Post office", rec.PostOffice)
	field("Tehsil", rec.Tehsil)
	field("District", rec.District)
	field("State", rec.State)
	field("PIN", BoldStyle.Render(rec.PINValue()))
	field("Quality", QualityStyle(rec.AddressQuality).Render(string(rec.AddressQuality)))
	field("Location", rec.LocationType)
	field("Suitability", string(rec.LocationSuitability))

	b.WriteString("\n")
	b.WriteString(RenderRemarks(rec.Remarks))

	return RenderBox("Verified Address", strings.TrimRight(b.String(), "\n"))
}

// RenderRemarks renders each remark on its own line, colored by severity.
func RenderRemarks(remarks string) string {
	var b strings.Builder
	for _, r := range reconcile.ParseRemarks(remarks) {
		switch r.Severity {
		case reconcile.SeverityCritical:
			b.WriteString(FormatError(r.String()))
		case reconcile.SeverityCaution:
			b.WriteString(FormatWarning(r.String()))
		default:
			if r.Text == reconcile.SuccessRemark {
				b.WriteString(FormatSuccess(r.Text))
			} else {
				b.WriteString(FormatInfo(r.Text))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderReport summarizes a batch run.
func RenderReport(report *batch.Report, output string) string {
	success, failed, skipped := report.Counts()

	summary := fmt.Sprintf("%s Rows processed: %d of %d\n", ChartIcon, len(report.Results), report.Total) +
		fmt.Sprintf("  • Verified: %s\n", SuccessStyle.Render(fmt.Sprint(success))) +
		fmt.Sprintf("  • Failed: %s\n", ErrorStyle.Render(fmt.Sprint(failed))) +
		fmt.Sprintf("  • Skipped: %d\n", skipped) +
		fmt.Sprintf("  • Time taken: %s\n", report.Duration.Round(time.Millisecond))
	if output != "" {
		summary += fmt.Sprintf("  • Output: %s\n", output)
	}
	if !report.Complete() {
		summary += "\n" + FormatWarning("Batch did not finish; only completed rows were written.")
	}

	return RenderBox("Batch "+report.BatchID, strings.TrimRight(summary, "\n"))
}

// RenderHistory renders stored verifications as a table, newest first.
func RenderHistory(records []service.StoredRecord) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No verifications recorded yet.")
	}

	headers := []string{"When", "Order", "PIN", "District", "Quality", "Address"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.OrderID,
			r.Record.PINValue(),
			r.Record.District,
			string(r.Record.AddressQuality),
			truncate(r.Record.AddressLine1, 40),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(c)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := []string{render(headers, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, render(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
