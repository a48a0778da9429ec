package scan

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
)

// scanENS resolves a .eth name and, on success, scans the resolved address as
// a wallet. Resolution failure short-circuits into a fixed suspicious verdict:
// without an address there is nothing further to check, and an unresolvable
// name handed to a victim is itself a known scam shape.
func (s *service) scanENS(ctx context.Context, input string) result {
	name := strings.ToLower(trimmed(input))

	resolved, err := s.deps.ENS.Resolve(ctx, name)
	if err != nil {
		metrics.SignalErrors.WithLabelValues("ens").Inc()
		logger.Warn(ctx, "ens resolution failed", zap.Error(err))

		return ensFailure(name, err)
	}

	walletRes := s.scanWallet(ctx, resolved)

	walletMeta, _ := walletRes.metadata.(domain.WalletMetadata)
	res := walletRes
	res.metadata = domain.ENSMetadata{
		ENSName:          name,
		ResolutionStatus: "resolved",
		ResolvedAddress:  resolved,
		Wallet:           &walletMeta,
	}

	zero := 0
	res.findings = append([]domain.Finding{{
		Message:       fmt.Sprintf("%s resolves to %s", name, resolved),
		Severity:      domain.SeverityInfo,
		ScoreOverride: &zero,
	}}, res.findings...)
	res.checks = append([]domain.Check{{
		Label:  "ens resolution",
		Passed: true,
		Detail: resolved,
	}}, res.checks...)
	res.sources = append(res.sources, sourceOutcome{name: "ens", ok: true})
	res.extraRecs = append(res.extraRecs,
		fmt.Sprintf("Confirm on app.ens.domains that %s really points where you expect before sending funds.", name))

	return res
}

// ensFailure is the fixed verdict for a name that does not resolve. The
// scoring engine is bypassed: there are no signals to weigh, only the fact
// that the name leads nowhere.
func ensFailure(name string, err error) result {
	return result{
		findings: []domain.Finding{{
			Message:  fmt.Sprintf("ENS resolution failed: %s", err.Error()),
			Severity: domain.SeverityMedium,
		}},
		checks: []domain.Check{{
			Label:  "ens resolution",
			Passed: false,
			Detail: err.Error(),
		}},
		metadata: domain.ENSMetadata{
			ENSName:          name,
			ResolutionStatus: "failed",
			ResolutionError:  err.Error(),
		},
		nextStep: "Confirm the exact spelling of the name with its owner through a channel you trust.",
		override: &verdictOverride{
			score:          50,
			level:          domain.RiskLevelSuspicious,
			confidence:     domain.ConfidenceLow,
			confidenceNote: "the name could not be resolved, so no address-level checks ran",
			summary: fmt.Sprintf(
				"The ENS name %s does not resolve. It may be unregistered, expired or mistyped, or the resolver may be unreachable.", name),
			recommendations: []string{
				"Do not send funds based on this name until it resolves to an address you have verified.",
				"Check the name on app.ens.domains to see whether it is registered and who owns it.",
			},
		},
	}
}
