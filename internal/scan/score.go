package scan

import (
	"fmt"
	"strings"

	"safescan/pkg/domain"
)

// severityWeights map a finding's severity to its score contribution when no
// explicit override is present. Values are content policy, not contract; the
// band edges and override rules below are the contract.
var severityWeights = map[domain.Severity]int{ //nolint: gochecknoglobals
	domain.SeverityInfo:   2,
	domain.SeverityLow:    10,
	domain.SeverityMedium: 25,
	domain.SeverityHigh:   40,
	domain.SeverityDanger: 60,
}

const (
	safeBandMax       = 30
	suspiciousBandMax = 60
)

// scoreOutcome is the result of the pure scoring pass over a findings list.
type scoreOutcome struct {
	score     int
	level     domain.RiskLevel
	breakdown []domain.ScoreBreakdownItem
}

// scoreFindings aggregates findings into a clamped score, a risk level and a
// per-finding breakdown. Level rules: 0-30 SAFE, 31-60 SUSPICIOUS, 61-100
// DANGEROUS; any danger finding forces at least SUSPICIOUS; a danger finding
// with a clamped score of 60 or more forces DANGEROUS.
func scoreFindings(findings []domain.Finding) scoreOutcome {
	var (
		total     int
		hasDanger bool
	)
	breakdown := make([]domain.ScoreBreakdownItem, 0, len(findings))

	for _, f := range findings {
		impact := severityWeights[f.Severity]
		if f.ScoreOverride != nil {
			impact = *f.ScoreOverride
		}
		total += impact
		breakdown = append(breakdown, domain.ScoreBreakdownItem{
			Label:       breakdownLabel(f.Message),
			ScoreImpact: impact,
		})

		if f.Severity == domain.SeverityDanger {
			hasDanger = true
		}
	}

	clamped := total
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	level := domain.RiskLevelSafe
	switch {
	case clamped > suspiciousBandMax:
		level = domain.RiskLevelDangerous
	case clamped > safeBandMax:
		level = domain.RiskLevelSuspicious
	}

	if hasDanger {
		if clamped >= suspiciousBandMax {
			level = domain.RiskLevelDangerous
		} else if level == domain.RiskLevelSafe {
			level = domain.RiskLevelSuspicious
		}
	}

	return scoreOutcome{score: clamped, level: level, breakdown: breakdown}
}

const maxBreakdownLabelLen = 80

func breakdownLabel(message string) string {
	if len(message) <= maxBreakdownLabelLen {
		return message
	}

	return message[:maxBreakdownLabelLen-3] + "..."
}

// sourceOutcome records whether one external signal source answered. The
// scanners collect these so confidence can distinguish "the source said
// nothing concerning" from "the source could not be reached".
type sourceOutcome struct {
	name string
	ok   bool
	// critical marks sources whose absence alone drops confidence to LOW.
	critical bool
	// reason describes the failure when !ok.
	reason string
}

// confidenceFrom derives the report confidence from source outcomes: all
// succeeded is HIGH, a partial answer is MEDIUM, and no answers or a missing
// critical source is LOW.
func confidenceFrom(sources []sourceOutcome) (domain.Confidence, string) {
	if len(sources) == 0 {
		return domain.ConfidenceHigh, "result derived from structural checks only; no external sources required"
	}

	var failed []string
	criticalFailed := false
	for _, s := range sources {
		if s.ok {
			continue
		}
		failed = append(failed, s.name)
		if s.critical {
			criticalFailed = true
		}
	}

	switch {
	case len(failed) == 0:
		return domain.ConfidenceHigh, "all signal sources responded"
	case criticalFailed || len(failed) == len(sources):
		return domain.ConfidenceLow,
			fmt.Sprintf("%s unavailable; heuristic-only result", strings.Join(failed, ", "))
	default:
		return domain.ConfidenceMedium,
			fmt.Sprintf("partial signal coverage: %s unavailable", strings.Join(failed, ", "))
	}
}

// summarize produces the deterministic one-line summary for a report.
func summarize(inputType domain.InputType, level domain.RiskLevel, findings []domain.Finding) string {
	noun := map[domain.InputType]string{
		domain.InputTypeURL:            "link",
		domain.InputTypeToken:          "token",
		domain.InputTypeSolanaToken:    "token",
		domain.InputTypeWallet:         "address",
		domain.InputTypeBTCWallet:      "address",
		domain.InputTypeTxHash:         "transaction",
		domain.InputTypeENS:            "name",
		domain.InputTypeInvalidAddress: "input",
		domain.InputTypeUnknown:        "input",
	}[inputType]

	dangers := 0
	for _, f := range findings {
		if f.Severity == domain.SeverityDanger {
			dangers++
		}
	}

	switch level {
	case domain.RiskLevelDangerous:
		return fmt.Sprintf("This %s shows strong risk signals (%d critical). Avoid interacting with it.", noun, dangers)
	case domain.RiskLevelSuspicious:
		return fmt.Sprintf("This %s shows signals that warrant caution. Verify independently before proceeding.", noun)
	default:
		return fmt.Sprintf("No significant risk signals were found for this %s.", noun)
	}
}

// recommend derives the ordered recommendation list from the level and the
// specific findings present.
func recommend(level domain.RiskLevel, findings []domain.Finding) []string {
	recs := make([]string, 0, 4)

	for _, f := range findings {
		msg := strings.ToLower(f.Message)
		switch {
		case strings.Contains(msg, "honeypot"):
			recs = append(recs, "Do not buy this token: holders may be unable to sell.")
		case strings.Contains(msg, "phishing"):
			recs = append(recs, "Do not enter credentials or connect a wallet on this site.")
		case strings.Contains(msg, "flagged") && f.Severity == domain.SeverityDanger:
			recs = append(recs, "Do not send funds to this address.")
		}
	}

	switch level {
	case domain.RiskLevelDangerous:
		recs = append(recs, "Treat this result as a warning: interacting may lead to loss of funds.")
	case domain.RiskLevelSuspicious:
		recs = append(recs, "Cross-check this result with at least one independent source before proceeding.")
	default:
		recs = append(recs, "Stay cautious: a clean scan cannot prove safety, only the absence of known signals.")
	}

	return recs
}
