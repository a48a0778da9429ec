package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
	"safescan/pkg/serrors"
	"safescan/pkg/signals/dexscreener"
	"safescan/pkg/signals/goplus"
)

// goPlusChainIDs maps DexScreener chain names to the numeric chain ids the
// GoPlus and Sourcify APIs expect.
var goPlusChainIDs = map[string]string{ //nolint: gochecknoglobals
	"ethereum": "1",
	"bsc":      "56",
	"polygon":  "137",
	"arbitrum": "42161",
	"base":     "8453",
	"optimism": "10",
}

// scanToken audits an EVM token contract: DexScreener market shape first,
// then the GoPlus audit and Sourcify verification on the chain the deepest
// pair trades on. Ethereum mainnet is assumed when no pair is indexed.
func (s *service) scanToken(ctx context.Context, input string) result {
	address := trimmed(input)
	res := result{}
	meta := domain.TokenMetadata{}

	pair, ok := s.bestPair(ctx, address, &res)

	chainID := "1"
	if ok {
		if id, known := goPlusChainIDs[pair.ChainID]; known {
			chainID = id
		}
		fillTokenPair(&meta, pair)
		s.applyPairFindings(pair, &res)
	}
	meta.ChainID = chainID

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		security *goplus.TokenSecurity
		secErr   error
		verified bool
		srcErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sigCtx, cancel := s.signalCtx(ctx)
		defer cancel()
		sec, err := s.deps.GoPlus.TokenSecurity(sigCtx, chainID, address)
		mu.Lock()
		security, secErr = sec, err
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		sigCtx, cancel := s.signalCtx(ctx)
		defer cancel()
		v, err := s.deps.Sourcify.VerificationStatus(sigCtx, address, chainID)
		mu.Lock()
		verified, srcErr = v, err
		mu.Unlock()
	}()
	wg.Wait()

	s.applyGoPlusToken(ctx, security, secErr, &res, &meta)
	s.applySourcify(ctx, verified, srcErr, &res, &meta)

	res.metadata = meta

	return res
}

// bestPair fetches DexScreener pairs and returns the one with the deepest
// liquidity. The no-pairs case raises its own finding here.
func (s *service) bestPair(ctx context.Context, address string, res *result) (dexscreener.Pair, bool) {
	sigCtx, cancel := s.signalCtx(ctx)
	defer cancel()

	pairs, err := s.deps.DexScreener.PairsFor(sigCtx, address)
	if err != nil {
		metrics.SignalErrors.WithLabelValues("dexscreener").Inc()
		logger.Warn(ctx, "dexscreener lookup failed", zap.Error(err))
		res.sources = append(res.sources, sourceOutcome{name: "dexscreener", ok: false, reason: err.Error()})

		return dexscreener.Pair{}, false
	}

	res.sources = append(res.sources, sourceOutcome{name: "dexscreener", ok: true})

	if len(pairs) == 0 {
		res.findings = append(res.findings, domain.Finding{
			Message:  "No trading pairs are indexed for this token; it has little or no organic market",
			Severity: domain.SeverityMedium,
		})

		return dexscreener.Pair{}, false
	}

	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}

	return best, true
}

// applyPairFindings raises market-shape findings for the selected pair.
func (s *service) applyPairFindings(pair dexscreener.Pair, res *result) {
	if pair.Liquidity.USD < s.opts.MinLiquidityUSD {
		res.findings = append(res.findings, domain.Finding{
			Message: fmt.Sprintf("Liquidity is only $%.0f; selling any meaningful amount may be impossible",
				pair.Liquidity.USD),
			Severity: domain.SeverityHigh,
		})
	}

	if pair.Liquidity.USD > 0 && pair.FDV/pair.Liquidity.USD > s.opts.MaxFDVToLiquidityRatio {
		res.findings = append(res.findings, domain.Finding{
			Message:  "The token's valuation vastly exceeds its liquidity, a shape typical of pump-and-dump launches",
			Severity: domain.SeverityMedium,
		})
	}

	if age := pair.AgeHours(time.Now()); age > 0 && age < s.opts.NewPairMaxAgeHours {
		res.findings = append(res.findings, domain.Finding{
			Message:  fmt.Sprintf("The trading pair is only %.0f hours old; most rug pulls happen in the first day", age),
			Severity: domain.SeverityMedium,
		})
	}
}

// fillTokenPair copies pair facts into the token metadata.
func fillTokenPair(meta *domain.TokenMetadata, pair dexscreener.Pair) {
	liq, vol, fdv, chg := pair.Liquidity.USD, pair.Volume.H24, pair.FDV, pair.PriceChange.H24
	age := pair.AgeHours(time.Now())

	meta.PairAddress = pair.PairAddress
	meta.DexID = pair.DexID
	meta.LiquidityUSD = &liq
	meta.Volume24h = &vol
	meta.FDV = &fdv
	meta.PriceChange24h = &chg
	meta.PairAgeHours = &age
}

// applyGoPlusToken folds the GoPlus token audit into findings and metadata.
func (s *service) applyGoPlusToken(ctx context.Context, sec *goplus.TokenSecurity, err error, res *result, meta *domain.TokenMetadata) {
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			// GoPlus answered, it just has no audit for this contract
			res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true})
			res.findings = append(res.findings, domain.Finding{
				Message:  "GoPlus has no audit data for this contract",
				Severity: domain.SeverityLow,
			})

			return
		}

		metrics.SignalErrors.WithLabelValues("goplus").Inc()
		logger.Warn(ctx, "goplus token audit failed", zap.Error(err))
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: false, critical: true, reason: err.Error()})

		return
	}

	res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true, critical: true})

	meta.IsHoneypot = sec.IsHoneypot
	meta.IsOpenSource = sec.IsOpenSource
	meta.IsMintable = sec.IsMintable
	meta.BuyTaxPercent = sec.BuyTaxPercent
	meta.SellTaxPercent = sec.SellTaxPercent
	meta.HiddenOwner = sec.HiddenOwner
	meta.IsProxy = sec.IsProxy
	meta.CanSelfDestruct = sec.CanSelfDestruct
	meta.HasBlacklist = sec.HasBlacklist
	meta.TransferPausable = sec.TransferPausable
	meta.SlippageModifiable = sec.SlippageModifiable
	meta.OwnerAddress = sec.OwnerAddress
	meta.HolderCount = sec.HolderCount

	add := func(msg string, sev domain.Severity) {
		res.findings = append(res.findings, domain.Finding{Message: msg, Severity: sev})
	}

	if isTrue(sec.IsHoneypot) {
		add("GoPlus marks this token as a honeypot: buyers cannot sell", domain.SeverityDanger)
	}
	if sec.BuyTaxPercent != nil && *sec.BuyTaxPercent > s.opts.MaxTaxPercent {
		add(fmt.Sprintf("Buying costs a %.0f%% tax", *sec.BuyTaxPercent), domain.SeverityHigh)
	}
	if sec.SellTaxPercent != nil && *sec.SellTaxPercent > s.opts.MaxTaxPercent {
		add(fmt.Sprintf("Selling costs a %.0f%% tax", *sec.SellTaxPercent), domain.SeverityHigh)
	}
	if isTrue(sec.HiddenOwner) {
		add("The contract hides its real owner", domain.SeverityMedium)
	}
	if isTrue(sec.IsMintable) {
		add("The owner can mint new tokens at will, diluting holders", domain.SeverityMedium)
	}
	if isTrue(sec.CanSelfDestruct) {
		add("The contract can self-destruct, wiping the token", domain.SeverityHigh)
	}
	if isTrue(sec.HasBlacklist) {
		add("The owner can blacklist individual holders from trading", domain.SeverityMedium)
	}
	if isTrue(sec.TransferPausable) {
		add("The owner can pause all transfers", domain.SeverityMedium)
	}
	if isTrue(sec.SlippageModifiable) {
		add("The owner can change trading taxes after launch", domain.SeverityMedium)
	}
	if isFalse(sec.IsOpenSource) {
		add("The contract source code is not published", domain.SeverityMedium)
	}
	if isTrue(sec.IsProxy) {
		add("The contract is a proxy whose logic can be swapped out", domain.SeverityLow)
	}
}

// applySourcify folds the verification lookup into findings and metadata.
func (s *service) applySourcify(ctx context.Context, verified bool, err error, res *result, meta *domain.TokenMetadata) {
	if err != nil {
		metrics.SignalErrors.WithLabelValues("sourcify").Inc()
		logger.Warn(ctx, "sourcify lookup failed", zap.Error(err))
		res.sources = append(res.sources, sourceOutcome{name: "sourcify", ok: false, reason: err.Error()})

		return
	}

	res.sources = append(res.sources, sourceOutcome{name: "sourcify", ok: true})
	meta.SourcifyVerified = &verified

	if !verified {
		res.findings = append(res.findings, domain.Finding{
			Message:  "The contract is not verified on Sourcify",
			Severity: domain.SeverityLow,
		})
	}
}

// scanSolanaToken audits an SPL mint with DexScreener market data and the
// GoPlus Solana security flags.
func (s *service) scanSolanaToken(ctx context.Context, input string) result {
	mint := trimmed(input)
	res := result{}
	meta := domain.SolanaMetadata{Mint: mint}

	if pair, ok := s.bestPair(ctx, mint, &res); ok {
		liq, vol, fdv := pair.Liquidity.USD, pair.Volume.H24, pair.FDV
		age := pair.AgeHours(time.Now())
		meta.PairAddress = pair.PairAddress
		meta.DexID = pair.DexID
		meta.LiquidityUSD = &liq
		meta.Volume24h = &vol
		meta.FDV = &fdv
		meta.PairAgeHours = &age

		s.applyPairFindings(pair, &res)
	}

	sigCtx, cancel := s.signalCtx(ctx)
	defer cancel()

	sec, err := s.deps.GoPlus.SolanaTokenSecurity(sigCtx, mint)
	switch {
	case err != nil && errors.Is(err, serrors.ErrNotFound):
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true})
		res.findings = append(res.findings, domain.Finding{
			Message:  "GoPlus has no audit data for this mint",
			Severity: domain.SeverityLow,
		})
	case err != nil:
		metrics.SignalErrors.WithLabelValues("goplus").Inc()
		logger.Warn(ctx, "goplus solana audit failed", zap.Error(err))
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: false, critical: true, reason: err.Error()})
	default:
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true, critical: true})

		if isTrue(sec.Mintable) {
			res.findings = append(res.findings, domain.Finding{
				Message:  "The mint authority is still enabled; the supply can be inflated at any time",
				Severity: domain.SeverityHigh,
			})
		}
		if isTrue(sec.Freezable) {
			res.findings = append(res.findings, domain.Finding{
				Message:  "The freeze authority is still enabled; individual holders can be frozen",
				Severity: domain.SeverityMedium,
			})
		}

		mintableDisabled := isFalse(sec.Mintable)
		freezeDisabled := isFalse(sec.Freezable)
		if sec.Mintable != nil {
			meta.MintableDisabled = &mintableDisabled
		}
		if sec.Freezable != nil {
			meta.FreezeDisabled = &freezeDisabled
		}
	}

	res.metadata = meta

	return res
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }
