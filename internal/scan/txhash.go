package scan

import (
	"context"
	"strings"

	"safescan/pkg/domain"
)

// scanTxHash classifies which networks a transaction hash can belong to and
// builds explorer links. A hash reveals nothing about intent, so this scanner
// never makes external calls and the verdict is informational.
func (s *service) scanTxHash(_ context.Context, input string) result {
	hash := trimmed(input)
	res := result{}

	meta := domain.TxMetadata{Hash: hash}

	switch {
	case strings.HasPrefix(strings.ToLower(hash), "0x"):
		meta.LikelyChain = "ethereum"
		meta.CandidateChains = []string{"ethereum", "bsc", "polygon", "arbitrum", "base", "optimism"}
		meta.Explorers = map[string]string{
			"ethereum": "https://etherscan.io/tx/" + hash,
			"bsc":      "https://bscscan.com/tx/" + hash,
			"polygon":  "https://polygonscan.com/tx/" + hash,
		}
	case len(hash) == 64:
		// bare 64 hex: Bitcoin txid, though EVM explorers accept it too
		meta.LikelyChain = "bitcoin"
		meta.CandidateChains = []string{"bitcoin", "ethereum"}
		meta.Explorers = map[string]string{
			"bitcoin":  "https://mempool.space/tx/" + hash,
			"ethereum": "https://etherscan.io/tx/0x" + hash,
		}
	default:
		meta.LikelyChain = "solana"
		meta.CandidateChains = []string{"solana"}
		meta.Explorers = map[string]string{
			"solana": "https://solscan.io/tx/" + hash,
		}
	}

	zero := 0
	res.findings = append(res.findings,
		domain.Finding{
			Message:       "A transaction hash identifies a past transaction; it carries no risk by itself",
			Severity:      domain.SeverityInfo,
			ScoreOverride: &zero,
		},
		domain.Finding{
			Message:  "If someone sent you this hash as proof of payment, confirm the amount and recipient on an explorer rather than trusting a screenshot",
			Severity: domain.SeverityInfo,
		},
	)
	res.checks = append(res.checks, domain.Check{
		Label:  "format recognized",
		Passed: true,
		Detail: meta.LikelyChain + " transaction format",
	})

	res.metadata = meta
	res.nextStep = "Open the transaction on a block explorer and confirm the details yourself."

	// the chain guess is heuristic when the format fits several networks
	if len(meta.CandidateChains) > 1 {
		res.confidence = domain.ConfidenceMedium
		res.confidenceNote = "the hash format is valid on several networks, so the chain is a best guess"
	}

	return res
}
