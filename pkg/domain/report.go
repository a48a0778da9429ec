package domain

import "time"

// InputType classifies what kind of value the user submitted for scanning.
// Exactly one type is assigned per scan and it never changes afterwards.
type InputType string

const (
	// InputTypeURL is a syntactically valid http(s) URL or bare domain.
	InputTypeURL InputType = "url"
	// InputTypeToken is an EVM token contract address (explicit hint or context).
	InputTypeToken InputType = "token"
	// InputTypeTxHash is a 0x-prefixed 64-hex transaction hash.
	InputTypeTxHash InputType = "txHash"
	// InputTypeWallet is a 0x-prefixed 40-hex EVM address.
	InputTypeWallet InputType = "wallet"
	// InputTypeBTCWallet is a Bitcoin address (base58check or bech32).
	InputTypeBTCWallet InputType = "btcWallet"
	// InputTypeSolanaToken is a base58 string decoding to a 32-byte Solana mint.
	InputTypeSolanaToken InputType = "solanaToken"
	// InputTypeENS is a .eth name.
	InputTypeENS InputType = "ens"
	// InputTypeInvalidAddress looks like an address but fails structural checks.
	InputTypeInvalidAddress InputType = "invalidAddress"
	// InputTypeUnknown is everything else. Classification never fails.
	InputTypeUnknown InputType = "unknown"
)

// Severity buckets a single finding by how concerning the signal is.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeverityDanger Severity = "danger"
)

// RiskLevel is the overall verdict band for a report.
type RiskLevel string

const (
	RiskLevelSafe       RiskLevel = "SAFE"
	RiskLevelSuspicious RiskLevel = "SUSPICIOUS"
	RiskLevelDangerous  RiskLevel = "DANGEROUS"
)

// Confidence reflects how many independent signal sources actually answered.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Finding is one signal produced by a scanner. Order is significant: the
// first finding conventionally carries resolution/classification context
// (e.g. the ENS resolution result) and later findings are scanner-specific.
type Finding struct {
	// Message is the human-readable description of the signal.
	Message string `json:"message"`
	// Severity buckets the signal; it maps to a score weight unless
	// ScoreOverride is set.
	Severity Severity `json:"severity"`
	// ScoreOverride, when non-nil, replaces the severity weight for this
	// finding in the score computation.
	ScoreOverride *int `json:"scoreOverride,omitempty"`
}

// ScoreBreakdownItem is the audit trail of one finding's contribution to the
// final risk score. The sum of impacts, after clamping, reconciles with
// SafetyReport.RiskScore.
type ScoreBreakdownItem struct {
	Label       string `json:"label"`
	ScoreImpact int    `json:"scoreImpact"`
}

// Check records one structural or signal check the scanner performed,
// whether it passed, and an optional detail line.
type Check struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// SafetyReport is the normalized result of scanning one input. Reports are
// built per request and never persisted.
type SafetyReport struct {
	// InputType is the classified type of the scanned value.
	InputType InputType `json:"inputType"`
	// InputValue is the original submitted string, preserved byte-for-byte
	// for display (including surrounding whitespace).
	InputValue string `json:"inputValue"`

	// RiskScore is the clamped aggregate score in [0,100].
	RiskScore int `json:"riskScore"`
	// RiskLevel is the band derived from RiskScore plus the danger overrides.
	RiskLevel RiskLevel `json:"riskLevel"`

	Confidence       Confidence `json:"confidence"`
	ConfidenceReason string     `json:"confidenceReason"`

	Summary         string               `json:"summary"`
	Findings        []Finding            `json:"findings"`
	Recommendations []string             `json:"recommendations"`
	ScoreBreakdown  []ScoreBreakdownItem `json:"scoreBreakdown"`
	NextStep        string               `json:"nextStep,omitempty"`
	ChecksPerformed []Check              `json:"checksPerformed,omitempty"`

	// Metadata holds the variant matching InputType, or nil.
	Metadata ReportMetadata `json:"metadata,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
