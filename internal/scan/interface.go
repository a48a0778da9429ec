package scan

import (
	"context"
	"time"

	"safescan/internal/config"
	"safescan/pkg/domain"
	"safescan/pkg/signals/dexscreener"
	"safescan/pkg/signals/ens"
	"safescan/pkg/signals/goplus"
	"safescan/pkg/urlresolver"
)

// Scanner classifies an input string and produces a safety report. A scan is
// stateless: nothing is persisted and requests do not affect each other.
type Scanner interface {
	// Scan analyzes input. hint may force token treatment of an EVM address
	// (domain.InputTypeToken); the empty string means no hint.
	Scan(ctx context.Context, input string, hint domain.InputType) (*domain.SafetyReport, error)
}

// GoPlusClient is the slice of the GoPlus API the scanners consume.
type GoPlusClient interface {
	TokenSecurity(ctx context.Context, chainID, address string) (*goplus.TokenSecurity, error)
	AddressFlags(ctx context.Context, chainID, address string) ([]string, error)
	SolanaTokenSecurity(ctx context.Context, mint string) (*goplus.SolanaTokenSecurity, error)
	PhishingSite(ctx context.Context, target string) (bool, error)
}

// DexScreenerClient looks up trading pairs for a token address.
type DexScreenerClient interface {
	PairsFor(ctx context.Context, address string) ([]dexscreener.Pair, error)
}

// SourcifyClient looks up contract verification status.
type SourcifyClient interface {
	VerificationStatus(ctx context.Context, address, chainID string) (bool, error)
}

// URLResolver follows a URL to its destination with SSRF guarding.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) urlresolver.Resolution
}

// Deps are the external collaborators a Scanner needs. Every client treats
// unavailability as a return value, never a panic, so the scanners can fold
// failures into confidence.
type Deps struct {
	GoPlus      GoPlusClient
	DexScreener DexScreenerClient
	Sourcify    SourcifyClient
	ENS         ens.Resolver
	Resolver    URLResolver
}

// Options hold the tunable scanning policy derived from configuration.
type Options struct {
	// SignalTimeout bounds each upstream signal call.
	SignalTimeout time.Duration

	// MinLiquidityUSD below which a low-liquidity finding is raised.
	MinLiquidityUSD float64
	// MaxFDVToLiquidityRatio above which a valuation finding is raised.
	MaxFDVToLiquidityRatio float64
	// MaxTaxPercent above which buy/sell tax findings are raised.
	MaxTaxPercent float64
	// NewPairMaxAgeHours under which a pair counts as newly created.
	NewPairMaxAgeHours float64

	// SuspiciousTLDs raise a finding when the host ends in one of them.
	SuspiciousTLDs []string
	// ScamKeywords raise a finding when present in the URL.
	ScamKeywords []string
	// MaxSubdomainDepth above which a spoofing-pattern finding is raised.
	MaxSubdomainDepth int
	// BlacklistHosts is the optional regulator blacklist; empty disables it.
	BlacklistHosts []string
}

// NewOptions builds Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SignalTimeout: cfg.Scan.SignalTimeout,

		MinLiquidityUSD:        cfg.Thresholds.MinLiquidityUSD,
		MaxFDVToLiquidityRatio: cfg.Thresholds.MaxFDVToLiquidityRatio,
		MaxTaxPercent:          cfg.Thresholds.MaxTaxPercent,
		NewPairMaxAgeHours:     cfg.Thresholds.NewPairMaxAgeHours,

		SuspiciousTLDs:    cfg.Heuristics.SuspiciousTLDs,
		ScamKeywords:      cfg.Heuristics.ScamKeywords,
		MaxSubdomainDepth: cfg.Heuristics.MaxSubdomainDepth,
		BlacklistHosts:    cfg.Heuristics.BlacklistHosts,
	}
}
