package scan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
	"safescan/pkg/validate"
)

// walletChains are the EVM networks an address is checked against. An EVM
// address is valid on every chain, so flags are collected across all of them.
var walletChains = []struct { //nolint: gochecknoglobals
	name     string
	id       string
	explorer string
}{
	{"ethereum", "1", "https://etherscan.io/address/%s"},
	{"bsc", "56", "https://bscscan.com/address/%s"},
	{"polygon", "137", "https://polygonscan.com/address/%s"},
	{"arbitrum", "42161", "https://arbiscan.io/address/%s"},
	{"base", "8453", "https://basescan.org/address/%s"},
	{"optimism", "10", "https://optimistic.etherscan.io/address/%s"},
}

// scanWallet checks an EVM address structurally (EIP-55) and against the
// GoPlus malicious-address database on every supported chain.
func (s *service) scanWallet(ctx context.Context, input string) result {
	address := trimmed(input)
	res := result{}

	check := validate.CheckEVMAddress(address)
	meta := domain.WalletMetadata{
		Address:       address,
		ChecksumValid: check.ChecksumOK,
		Explorers:     evmExplorers(address),
	}

	res.findings = append(res.findings, checksumFinding(check))
	res.checks = append(res.checks, domain.Check{
		Label:  "EIP-55 checksum",
		Passed: check.ChecksumOK,
		Detail: checksumDetail(check),
	})

	flags, anyAnswered := s.collectAddressFlags(ctx, address)
	outcome := sourceOutcome{name: "goplus", ok: anyAnswered, critical: true}
	if !anyAnswered {
		outcome.reason = "address flag lookup failed on every chain"
	}
	res.sources = append(res.sources, outcome)

	if len(flags) > 0 {
		meta.IsFlagged = true
		meta.GoPlusFlags = flags
		res.findings = append(res.findings, domain.Finding{
			Message: fmt.Sprintf("This address is flagged by GoPlus as: %s",
				strings.Join(prettifyFlags(flags), ", ")),
			Severity: domain.SeverityDanger,
		})
	}
	res.checks = append(res.checks, domain.Check{
		Label:  "malicious address database",
		Passed: anyAnswered && len(flags) == 0,
	})

	res.metadata = meta
	res.nextStep = "Verify the address on a block explorer before sending anything to it."

	return res
}

// collectAddressFlags queries every supported chain concurrently and returns
// the sorted union of raised flag names. anyAnswered is false only when every
// chain lookup failed.
func (s *service) collectAddressFlags(ctx context.Context, address string) ([]string, bool) {
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		flagSet     = make(map[string]struct{})
		anyAnswered bool
	)

	for _, chain := range walletChains {
		wg.Add(1)
		go func(chainID, chainName string) {
			defer wg.Done()
			sigCtx, cancel := s.signalCtx(ctx)
			defer cancel()

			flags, err := s.deps.GoPlus.AddressFlags(sigCtx, chainID, address)
			if err != nil {
				metrics.SignalErrors.WithLabelValues("goplus").Inc()
				logger.Debug(ctx, "address flag lookup failed",
					zap.String("chain", chainName), zap.Error(err))

				return
			}

			mu.Lock()
			anyAnswered = true
			for _, f := range flags {
				flagSet[f] = struct{}{}
			}
			mu.Unlock()
		}(chain.id, chain.name)
	}
	wg.Wait()

	flags := make([]string, 0, len(flagSet))
	for f := range flagSet {
		flags = append(flags, f)
	}
	sort.Strings(flags)

	return flags, anyAnswered
}

// scanBTCWallet validates a Bitcoin address structurally. There is no flag
// database lookup for Bitcoin, so the verdict rests on the checksum alone.
func (s *service) scanBTCWallet(_ context.Context, input string) result {
	address := trimmed(input)
	res := result{}

	check := validate.CheckBTCAddress(address)
	meta := domain.WalletMetadata{
		Address:       address,
		ChecksumValid: check.ChecksumOK,
		Explorers:     map[string]string{"bitcoin": "https://mempool.space/address/" + address},
	}

	if check.ChecksumOK {
		zero := 0
		res.findings = append(res.findings, domain.Finding{
			Message:       fmt.Sprintf("The address is a well-formed Bitcoin %s address with a valid checksum", check.Format),
			Severity:      domain.SeverityInfo,
			ScoreOverride: &zero,
		})
	} else {
		res.findings = append(res.findings, domain.Finding{
			Message:  "The address checksum does not verify; it was mistyped or altered and must not be used",
			Severity: domain.SeverityDanger,
		})
	}
	res.checks = append(res.checks, domain.Check{
		Label:  "address checksum",
		Passed: check.ChecksumOK,
		Detail: string(check.Format),
	})

	res.metadata = meta
	res.nextStep = "Verify the address on a block explorer before sending anything to it."

	return res
}

// checksumFinding describes the EIP-55 outcome. A mismatched checksum is
// treated as dangerous: the address was altered somewhere between copy and
// paste and funds sent to it are unrecoverable.
func checksumFinding(check validate.EVMCheck) domain.Finding {
	switch {
	case check.HasChecksum && !check.ChecksumOK:
		return domain.Finding{
			Message:  "The address fails its EIP-55 checksum; it was mistyped or tampered with and must not be used",
			Severity: domain.SeverityDanger,
		}
	case !check.HasChecksum:
		zero := 0
		return domain.Finding{
			Message:       "The address carries no checksum casing, so a typo in it cannot be detected",
			Severity:      domain.SeverityInfo,
			ScoreOverride: &zero,
		}
	default:
		zero := 0
		return domain.Finding{
			Message:       "The address passes its EIP-55 checksum",
			Severity:      domain.SeverityInfo,
			ScoreOverride: &zero,
		}
	}
}

func checksumDetail(check validate.EVMCheck) string {
	if !check.HasChecksum {
		return "no checksum casing present"
	}
	if check.ChecksumOK {
		return "mixed-case checksum verified"
	}

	return "checksum mismatch"
}

func evmExplorers(address string) map[string]string {
	explorers := make(map[string]string, len(walletChains))
	for _, chain := range walletChains {
		explorers[chain.name] = fmt.Sprintf(chain.explorer, address)
	}

	return explorers
}

func prettifyFlags(flags []string) []string {
	pretty := make([]string, len(flags))
	for i, f := range flags {
		pretty[i] = strings.ReplaceAll(f, "_", " ")
	}

	return pretty
}
