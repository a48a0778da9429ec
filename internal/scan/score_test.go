package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"safescan/pkg/domain"
)

func finding(sev domain.Severity, msg string) domain.Finding {
	return domain.Finding{Message: msg, Severity: sev}
}

func TestScoreFindings_Empty(t *testing.T) {
	out := scoreFindings(nil)

	require.Equal(t, 0, out.score)
	require.Equal(t, domain.RiskLevelSafe, out.level)
	require.Empty(t, out.breakdown)
}

func TestScoreFindings_Bands(t *testing.T) {
	cases := []struct {
		name     string
		findings []domain.Finding
		score    int
		level    domain.RiskLevel
	}{
		{
			name:     "single low stays safe",
			findings: []domain.Finding{finding(domain.SeverityLow, "minor issue")},
			score:    10,
			level:    domain.RiskLevelSafe,
		},
		{
			name: "edge of safe band",
			findings: []domain.Finding{
				finding(domain.SeverityLow, "a"),
				finding(domain.SeverityLow, "b"),
				finding(domain.SeverityLow, "c"),
			},
			score: 30,
			level: domain.RiskLevelSafe,
		},
		{
			name: "just over safe band",
			findings: []domain.Finding{
				finding(domain.SeverityMedium, "a"),
				finding(domain.SeverityLow, "b"),
			},
			score: 35,
			level: domain.RiskLevelSuspicious,
		},
		{
			name: "over suspicious band",
			findings: []domain.Finding{
				finding(domain.SeverityHigh, "a"),
				finding(domain.SeverityMedium, "b"),
			},
			score: 65,
			level: domain.RiskLevelDangerous,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := scoreFindings(tc.findings)
			require.Equal(t, tc.score, out.score)
			require.Equal(t, tc.level, out.level)
			require.Len(t, out.breakdown, len(tc.findings))
		})
	}
}

func TestScoreFindings_ClampsTo100(t *testing.T) {
	findings := []domain.Finding{
		finding(domain.SeverityDanger, "a"),
		finding(domain.SeverityDanger, "b"),
		finding(domain.SeverityDanger, "c"),
	}

	out := scoreFindings(findings)
	require.Equal(t, 100, out.score)
	require.Equal(t, domain.RiskLevelDangerous, out.level)

	// breakdown keeps raw per-finding impacts even when the total clamps
	for _, item := range out.breakdown {
		require.Equal(t, 60, item.ScoreImpact)
	}
}

func TestScoreFindings_DangerNeverSafe(t *testing.T) {
	override := 5
	out := scoreFindings([]domain.Finding{
		{Message: "critical flag", Severity: domain.SeverityDanger, ScoreOverride: &override},
	})

	require.Equal(t, 5, out.score)
	require.Equal(t, domain.RiskLevelSuspicious, out.level)
}

func TestScoreFindings_DangerAtSixtyIsDangerous(t *testing.T) {
	out := scoreFindings([]domain.Finding{finding(domain.SeverityDanger, "critical flag")})

	require.Equal(t, 60, out.score)
	require.Equal(t, domain.RiskLevelDangerous, out.level)
}

func TestScoreFindings_ScoreOverride(t *testing.T) {
	zero := 0
	out := scoreFindings([]domain.Finding{
		{Message: "informational", Severity: domain.SeverityInfo, ScoreOverride: &zero},
	})

	require.Equal(t, 0, out.score)
	require.Equal(t, domain.RiskLevelSafe, out.level)
	require.Equal(t, 0, out.breakdown[0].ScoreImpact)
}

func TestScoreFindings_ScoreAlwaysInRange(t *testing.T) {
	severities := []domain.Severity{
		domain.SeverityInfo, domain.SeverityLow, domain.SeverityMedium,
		domain.SeverityHigh, domain.SeverityDanger,
	}

	var findings []domain.Finding
	for i := 0; i < 20; i++ {
		findings = append(findings, finding(severities[i%len(severities)], "x"))
		out := scoreFindings(findings)
		require.GreaterOrEqual(t, out.score, 0)
		require.LessOrEqual(t, out.score, 100)
	}
}

func TestConfidenceFrom(t *testing.T) {
	cases := []struct {
		name    string
		sources []sourceOutcome
		want    domain.Confidence
	}{
		{"no sources", nil, domain.ConfidenceHigh},
		{
			"all ok",
			[]sourceOutcome{{name: "goplus", ok: true}, {name: "dexscreener", ok: true}},
			domain.ConfidenceHigh,
		},
		{
			"partial",
			[]sourceOutcome{{name: "goplus", ok: true}, {name: "sourcify", ok: false}},
			domain.ConfidenceMedium,
		},
		{
			"all failed",
			[]sourceOutcome{{name: "goplus", ok: false}, {name: "dexscreener", ok: false}},
			domain.ConfidenceLow,
		},
		{
			"critical failed",
			[]sourceOutcome{
				{name: "goplus", ok: false, critical: true},
				{name: "dexscreener", ok: true},
			},
			domain.ConfidenceLow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, explanation := confidenceFrom(tc.sources)
			require.Equal(t, tc.want, got)
			require.NotEmpty(t, explanation)
		})
	}
}

func TestSummarize(t *testing.T) {
	dangerous := summarize(domain.InputTypeToken, domain.RiskLevelDangerous,
		[]domain.Finding{finding(domain.SeverityDanger, "honeypot")})
	require.Contains(t, dangerous, "token")
	require.Contains(t, dangerous, "Avoid")

	safe := summarize(domain.InputTypeURL, domain.RiskLevelSafe, nil)
	require.Contains(t, safe, "link")
	require.Contains(t, safe, "No significant")
}

func TestRecommend(t *testing.T) {
	recs := recommend(domain.RiskLevelDangerous, []domain.Finding{
		finding(domain.SeverityDanger, "GoPlus marks this token as a honeypot"),
	})
	require.NotEmpty(t, recs)
	require.Contains(t, recs[0], "unable to sell")

	safe := recommend(domain.RiskLevelSafe, nil)
	require.Len(t, safe, 1)
}
