package reconcile

import "strings"

// Severity classifies a remark.
type Severity int

// Remark severities.
const (
	SeverityInfo Severity = iota
	SeverityCaution
	SeverityCritical
)

const (
	criticalPrefix = "CRITICAL ALERT: "
	cautionPrefix  = "Caution: "

	// SuccessRemark is the only remark of a record that raised no notes.
	SuccessRemark = "Address verified successfully"

	remarkSeparator = "; "
)

// Remark is one entry of the audit trail.
type Remark struct {
	Text     string
	Severity Severity
}

func (r Remark) String() string {
	switch r.Severity {
	case SeverityCritical:
		return criticalPrefix + r.Text
	case SeverityCaution:
		return cautionPrefix + r.Text
	default:
		return r.Text
	}
}

// Remarks is an ordered log of notes raised while reconciling one record.
type Remarks struct {
	entries []Remark
}

// Add appends a note.
func (r *Remarks) Add(sev Severity, text string) {
	r.entries = append(r.entries, Remark{Severity: sev, Text: text})
}

// Info appends an informational note.
func (r *Remarks) Info(text string) { r.Add(SeverityInfo, text) }

// Caution appends a cautionary note.
func (r *Remarks) Caution(text string) { r.Add(SeverityCaution, text) }

// Critical appends a note that requires manual review.
func (r *Remarks) Critical(text string) { r.Add(SeverityCritical, text) }

// Len returns the number of notes.
func (r *Remarks) Len() int { return len(r.entries) }

// CriticalCount returns the number of critical notes.
func (r *Remarks) CriticalCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// Entries returns a copy of the notes in generation order.
func (r *Remarks) Entries() []Remark {
	return append([]Remark(nil), r.entries...)
}

// String joins the notes in order. An empty log renders as SuccessRemark.
func (r *Remarks) String() string {
	if len(r.entries) == 0 {
		return SuccessRemark
	}
	parts := make([]string, len(r.entries))
	for i, e := range r.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, remarkSeparator)
}

// ParseRemarks splits a rendered remarks string back into notes.
func ParseRemarks(s string) []Remark {
	var out []Remark
	for _, part := range strings.Split(s, remarkSeparator) {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, criticalPrefix):
			out = append(out, Remark{Severity: SeverityCritical, Text: strings.TrimPrefix(part, criticalPrefix)})
		case strings.HasPrefix(part, cautionPrefix):
			out = append(out, Remark{Severity: SeverityCaution, Text: strings.TrimPrefix(part, cautionPrefix)})
		default:
			out = append(out, Remark{Severity: SeverityInfo, Text: part})
		}
	}
	return out
}
