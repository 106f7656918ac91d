// Package reconcile merges the Oracle's extracted components with verified
// postal data into a single reviewable record.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/postal"
)

// Engine reconciles one address at a time. It is safe for concurrent use.
type Engine struct {
	lookup    postal.Lookuper
	logger    *slog.Logger
	metrics   *metrics.Metrics
	stopWords map[string]struct{}
	leakage   map[string]struct{}
	cfg       Config
}

// NewEngine creates an engine. lookup is used to verify PINs the Oracle proposes.
func NewEngine(lookup postal.Lookuper, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Engine {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		lookup:    lookup,
		logger:    logger,
		metrics:   m,
		stopWords: tokenSet(cfg.StopWords),
		leakage:   tokenSet(cfg.LeakageTokens),
		cfg:       cfg,
	}
}

// Reconcile builds the final record for raw. ref is the lookup result for the
// PIN found in the raw text, and extracted is the Oracle's reading.
func (e *Engine) Reconcile(ctx context.Context, raw model.RawInput, ref model.PostalReference, extracted model.ExtractedComponents) model.VerificationRecord {
	var remarks Remarks

	if extracted.Degraded {
		remarks.Critical("Address parsing failed, using cleaned raw text")
	}

	pin, ref := e.resolvePIN(ctx, raw.Address, ref, extracted.PIN, &remarks)

	rec := model.VerificationRecord{
		Status:              model.StatusSuccess,
		CustomerRawName:     raw.CustomerName,
		CustomerCleanName:   CleanName(raw.CustomerName),
		AddressLine1:        addressLine(extracted),
		Landmark:            FormatLandmark(raw.Address, extracted.Landmark),
		AddressQuality:      extracted.AddressQuality,
		LocationType:        extracted.LocationType,
		LocationSuitability: extracted.LocationSuitability,
		VerifiedAt:          time.Now(),
	}
	rec.SetPIN(pin)

	if office := ref.Primary(); office != nil {
		rec.PostOffice = office.Name
		rec.Tehsil = office.SubDistrict
		rec.District = office.District
		rec.State = office.State
		e.crossCheck(raw.Address, pin, *office, extracted, &remarks)
	} else {
		rec.PostOffice = extracted.PostOffice
		rec.Tehsil = extracted.Tehsil
		rec.District = extracted.District
		rec.State = extracted.State
	}

	residual := stripStopWords(extracted.Remaining, e.stopWords)
	e.checkStructure(extracted, rec.AddressLine1, residual, &remarks)

	if len(residual) > 0 {
		remarks.Caution("Ambiguous text: " + strings.Join(residual, " "))
	}

	critical := remarks.CriticalCount()
	if critical > 0 && e.cfg.CapQualityOnCritical {
		rec.AddressQuality = rec.AddressQuality.Cap(model.QualityBad)
	}
	rec.Remarks = remarks.String()

	e.metrics.AddCriticalRemarks(critical)
	e.logger.Debug("address reconciled",
		"pin", rec.PINValue(),
		"quality", rec.AddressQuality,
		"remarks", remarks.Len(),
		"critical", critical)

	return rec
}

// resolvePIN picks the final PIN and its reference. The Oracle's PIN is
// preferred, but only after it verifies on its own.
func (e *Engine) resolvePIN(ctx context.Context, address string, ref model.PostalReference, oraclePIN string, remarks *Remarks) (string, model.PostalReference) {
	rawPIN := ExtractPIN(address)
	pin := rawPIN

	if model.IsValidPIN(oraclePIN) && oraclePIN != rawPIN {
		proposed := e.lookup.Lookup(ctx, oraclePIN)
		switch {
		case proposed.IsVerified() && rawPIN == "":
			remarks.Info(fmt.Sprintf("PIN %s inferred from address and verified", oraclePIN))
			return oraclePIN, proposed
		case proposed.IsVerified():
			remarks.Info(fmt.Sprintf("PIN %s corrected to %s and verified", rawPIN, oraclePIN))
			return oraclePIN, proposed
		case rawPIN != "":
			remarks.Caution(fmt.Sprintf("Suggested PIN %s could not be verified, keeping original PIN %s", oraclePIN, rawPIN))
		default:
			remarks.Caution(fmt.Sprintf("Suggested PIN %s could not be verified", oraclePIN))
		}
	}

	if pin == "" {
		remarks.Critical("PIN not found, manual review required")
		return "", model.Unverified()
	}
	if !ref.IsVerified() {
		remarks.Caution(fmt.Sprintf("PIN %s could not be verified against postal records", pin))
	}
	return pin, ref
}

// crossCheck flags a verified PIN whose district or state disagrees with a
// place the raw text actually names.
func (e *Engine) crossCheck(address, pin string, office model.PostOffice, extracted model.ExtractedComponents, remarks *Remarks) {
	checks := []struct {
		level     string
		extracted string
		reference string
	}{
		{level: "District", extracted: extracted.District, reference: office.District},
		{level: "State", extracted: extracted.State, reference: office.State},
	}

	for _, c := range checks {
		if samePlace(c.extracted, c.reference) || !containsFold(address, c.extracted) {
			continue
		}
		remarks.Critical(fmt.Sprintf("%s mismatch: address mentions %s but PIN %s belongs to %s",
			c.level, c.extracted, pin, c.reference))
	}
}

// checkStructure runs the independent structural defect checks.
func (e *Engine) checkStructure(extracted model.ExtractedComponents, line string, residual []string, remarks *Remarks) {
	topTier := extracted.AddressQuality.IsTopTier()

	if strings.TrimSpace(extracted.PremiseNumber) == "" && !topTier {
		remarks.Critical("No house, flat or plot number found")
	}

	if leaked := e.leakedTokens(residual); len(leaked) > 0 {
		remarks.Critical(fmt.Sprintf("Unclassified address components in text: %s", strings.Join(leaked, ", ")))
	}

	length := utf8.RuneCountInString(strings.TrimSpace(line))
	if length < e.cfg.ShortAddressThreshold && !topTier {
		remarks.Critical(fmt.Sprintf("Formatted address is too short (%d characters), manual check recommended", length))
	}

	required := min(length/e.cfg.DensityCharsPerComponent, e.cfg.MaxDensityRequirement)
	if found := extracted.StructuralCount(); found < required {
		remarks.Critical(fmt.Sprintf("Low address detail: %d structural components found, at least %d expected", found, required))
	}
}

func (e *Engine) leakedTokens(words []string) []string {
	var leaked []string
	for _, w := range words {
		if _, ok := e.leakage[foldToken(w)]; ok {
			leaked = append(leaked, w)
		}
	}
	return leaked
}

// addressLine is the Oracle's formatted address, or its parts joined when the
// Oracle left the formatted line empty.
func addressLine(c model.ExtractedComponents) string {
	if line := strings.TrimSpace(c.FormattedAddress); line != "" {
		return line
	}
	var parts []string
	for _, p := range []string{c.PremiseNumber, c.Floor, c.Building, c.Street, c.Colony, c.Locality} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
