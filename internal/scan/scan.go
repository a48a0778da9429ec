package scan

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
)

// service implements Scanner by dispatching on the classified input type.
type service struct {
	deps Deps
	opts Options
}

// New returns a Scanner built from the given collaborators and policy.
func New(deps Deps, opts Options) Scanner {
	return &service{deps: deps, opts: opts}
}

// result is what a type scanner hands back to the orchestrator. Most scanners
// fill findings and let the scoring engine derive the verdict; a scanner may
// set override to fix the verdict itself (ENS resolution failure does this).
type result struct {
	findings []domain.Finding
	checks   []domain.Check
	metadata domain.ReportMetadata
	sources  []sourceOutcome
	nextStep string

	// confidence, when set, replaces the source-derived confidence. Used by
	// scanners whose uncertainty is structural rather than source-driven.
	confidence     domain.Confidence
	confidenceNote string
	// extraRecs are appended after the derived recommendations.
	extraRecs []string

	override *verdictOverride
}

// verdictOverride bypasses the scoring engine entirely.
type verdictOverride struct {
	score           int
	level           domain.RiskLevel
	confidence      domain.Confidence
	confidenceNote  string
	summary         string
	recommendations []string
}

func (s *service) Scan(ctx context.Context, input string, hint domain.InputType) (*domain.SafetyReport, error) {
	start := time.Now()

	inputType := Classify(input)
	// a well-formed EVM address is ambiguous between wallet and token
	// contract; the caller-supplied hint settles it
	if hint == domain.InputTypeToken && inputType == domain.InputTypeWallet {
		inputType = domain.InputTypeToken
	}

	ctx = logger.WithFields(ctx, zap.String("input_type", string(inputType)))

	var res result
	switch inputType {
	case domain.InputTypeURL:
		res = s.scanURL(ctx, input)
	case domain.InputTypeToken:
		res = s.scanToken(ctx, input)
	case domain.InputTypeSolanaToken:
		res = s.scanSolanaToken(ctx, input)
	case domain.InputTypeWallet:
		res = s.scanWallet(ctx, input)
	case domain.InputTypeBTCWallet:
		res = s.scanBTCWallet(ctx, input)
	case domain.InputTypeTxHash:
		res = s.scanTxHash(ctx, input)
	case domain.InputTypeENS:
		res = s.scanENS(ctx, input)
	case domain.InputTypeInvalidAddress:
		res = scanInvalidAddress(input)
	default:
		res = scanUnknown()
	}

	report := s.assemble(inputType, input, res)

	metrics.ScansTotal.WithLabelValues(string(inputType), string(report.RiskLevel)).Inc()
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	logger.Info(ctx, "scan completed",
		zap.String("risk_level", string(report.RiskLevel)),
		zap.Int("risk_score", report.RiskScore),
		zap.Int("findings", len(report.Findings)),
		zap.Duration("duration", time.Since(start)))

	return report, nil
}

// assemble turns a scanner result into the final report. Findings slices are
// normalized to non-nil so the JSON field always renders as an array.
func (s *service) assemble(inputType domain.InputType, input string, res result) *domain.SafetyReport {
	findings := res.findings
	if findings == nil {
		findings = []domain.Finding{}
	}

	report := &domain.SafetyReport{
		InputType:       inputType,
		InputValue:      input,
		Findings:        findings,
		ChecksPerformed: res.checks,
		NextStep:        res.nextStep,
		Metadata:        res.metadata,
		Timestamp:       time.Now().UTC(),
	}

	if res.override != nil {
		o := res.override
		report.RiskScore = o.score
		report.RiskLevel = o.level
		report.Confidence = o.confidence
		report.ConfidenceReason = o.confidenceNote
		report.Summary = o.summary
		report.Recommendations = o.recommendations
		report.ScoreBreakdown = []domain.ScoreBreakdownItem{}

		return report
	}

	outcome := scoreFindings(findings)
	confidence, confidenceReason := confidenceFrom(res.sources)
	if res.confidence != "" {
		confidence, confidenceReason = res.confidence, res.confidenceNote
	}

	report.RiskScore = outcome.score
	report.RiskLevel = outcome.level
	report.ScoreBreakdown = outcome.breakdown
	report.Confidence = confidence
	report.ConfidenceReason = confidenceReason
	report.Summary = summarize(inputType, outcome.level, findings)
	report.Recommendations = append(recommend(outcome.level, findings), res.extraRecs...)

	return report
}

// signalCtx bounds one upstream signal call.
func (s *service) signalCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.SignalTimeout)
}

// trimmed strips surrounding whitespace for lookups. The report's InputValue
// keeps the original string untouched.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// scanInvalidAddress handles inputs that look like an address but fail
// structural validation. No external calls are made for these.
func scanInvalidAddress(input string) result {
	return result{
		findings: []domain.Finding{{
			Message:  "Input resembles a blockchain address but fails structural validation; it may be truncated, mistyped or deliberately malformed",
			Severity: domain.SeverityHigh,
		}},
		checks: []domain.Check{{
			Label:  "structural validation",
			Passed: false,
			Detail: "no known address format matched",
		}},
		nextStep: "Re-copy the address from the original source and scan it again.",
	}
}

// scanUnknown handles inputs that match no known shape at all.
func scanUnknown() result {
	return result{
		findings: []domain.Finding{{
			Message:  "Input does not match any recognized format (URL, address, transaction hash or ENS name)",
			Severity: domain.SeverityLow,
		}},
		nextStep: "Submit a URL, a wallet or token address, a transaction hash or an ENS name.",
	}
}
