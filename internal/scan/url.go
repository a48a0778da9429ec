package scan

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/idna"

	"safescan/pkg/domain"
	"safescan/pkg/logger"
	"safescan/pkg/metrics"
	"safescan/pkg/urlresolver"
)

// scanURL runs static heuristics on the link, follows its redirect chain
// through the guarded resolver and checks the destination against the GoPlus
// phishing database. Static checks always run, even when the network is down.
func (s *service) scanURL(ctx context.Context, input string) result {
	target := strings.TrimSpace(input)
	if !strings.HasPrefix(strings.ToLower(target), "http://") &&
		!strings.HasPrefix(strings.ToLower(target), "https://") {
		target = "https://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return result{
			findings: []domain.Finding{{
				Message:  "The URL could not be parsed",
				Severity: domain.SeverityMedium,
			}},
			metadata: domain.URLMetadata{},
		}
	}

	meta := domain.URLMetadata{UsesHTTPS: parsed.Scheme == "https"}
	res := result{}

	res.findings = append(res.findings, s.staticURLFindings(parsed, &meta)...)
	res.checks = append(res.checks,
		domain.Check{Label: "https", Passed: meta.UsesHTTPS},
		domain.Check{Label: "static heuristics", Passed: len(res.findings) == 0},
	)

	resolution := s.deps.Resolver.Resolve(ctx, target)
	meta.FinalURL = resolution.FinalURL
	meta.RedirectCount = resolution.RedirectCount
	meta.Reachable = resolution.Reachable
	meta.StatusCode = resolution.StatusCode
	meta.ErrorType = string(resolution.ErrorType)

	res.findings = append(res.findings, resolutionFindings(parsed, resolution)...)
	res.sources = append(res.sources, sourceOutcome{
		name:   "resolver",
		ok:     resolutionAnswered(resolution),
		reason: string(resolution.ErrorType),
	})
	res.checks = append(res.checks, domain.Check{
		Label:  "destination reachable",
		Passed: resolution.Reachable,
		Detail: string(resolution.ErrorType),
	})

	// check the destination actually landed on, not just the submitted URL
	phishingTarget := target
	if resolution.Reachable && resolution.FinalURL != "" {
		phishingTarget = resolution.FinalURL
	}

	sigCtx, cancel := s.signalCtx(ctx)
	defer cancel()

	hit, err := s.deps.GoPlus.PhishingSite(sigCtx, phishingTarget)
	switch {
	case err != nil:
		metrics.SignalErrors.WithLabelValues("goplus").Inc()
		logger.Warn(ctx, "phishing lookup failed", zap.Error(err))
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: false, reason: err.Error()})
	case hit:
		meta.PhishingHit = true
		res.findings = append(res.findings, domain.Finding{
			Message:  "This site is listed in the GoPlus phishing database",
			Severity: domain.SeverityDanger,
		})
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true})
	default:
		res.sources = append(res.sources, sourceOutcome{name: "goplus", ok: true})
	}
	res.checks = append(res.checks, domain.Check{Label: "phishing database", Passed: err == nil && !hit})

	res.metadata = meta

	return res
}

// staticURLFindings inspects the URL itself without any network access.
func (s *service) staticURLFindings(parsed *url.URL, meta *domain.URLMetadata) []domain.Finding {
	var findings []domain.Finding

	host := strings.ToLower(parsed.Hostname())

	if parsed.Scheme == "http" {
		findings = append(findings, domain.Finding{
			Message:  "The site does not use HTTPS; anything entered can be intercepted",
			Severity: domain.SeverityMedium,
		})
	}

	if _, err := netip.ParseAddr(host); err == nil {
		findings = append(findings, domain.Finding{
			Message:  "The URL points at a raw IP address instead of a domain name",
			Severity: domain.SeverityHigh,
		})
	}

	if puny := punycodeHost(host); puny != "" {
		meta.PunycodeHost = true
		findings = append(findings, domain.Finding{
			Message:  fmt.Sprintf("The domain uses punycode and displays as %q; lookalike characters are a common impersonation trick", puny),
			Severity: domain.SeverityHigh,
		})
	}

	for _, tld := range s.opts.SuspiciousTLDs {
		if strings.HasSuffix(host, "."+strings.TrimPrefix(tld, ".")) {
			findings = append(findings, domain.Finding{
				Message:  fmt.Sprintf("The domain uses the %s top-level domain, which is heavily abused for scams", tld),
				Severity: domain.SeverityMedium,
			})

			break
		}
	}

	if kw := matchKeywords(host+parsed.EscapedPath(), s.opts.ScamKeywords); len(kw) > 0 {
		findings = append(findings, domain.Finding{
			Message:  fmt.Sprintf("The URL contains bait wording often used in scams: %s", strings.Join(kw, ", ")),
			Severity: domain.SeverityMedium,
		})
	}

	if depth := strings.Count(host, "."); depth > s.opts.MaxSubdomainDepth {
		findings = append(findings, domain.Finding{
			Message:  "The domain nests many subdomains, a pattern used to hide the real site behind a familiar-looking prefix",
			Severity: domain.SeverityMedium,
		})
	}

	for _, blocked := range s.opts.BlacklistHosts {
		if host == strings.ToLower(blocked) || strings.HasSuffix(host, "."+strings.ToLower(blocked)) {
			findings = append(findings, domain.Finding{
				Message:  "The domain appears on a blocklist of known malicious sites",
				Severity: domain.SeverityDanger,
			})

			break
		}
	}

	return findings
}

// resolutionFindings turns the redirect-chain outcome into findings.
func resolutionFindings(parsed *url.URL, resolution urlresolver.Resolution) []domain.Finding {
	var findings []domain.Finding

	switch resolution.ErrorType {
	case urlresolver.ErrorTypeBlocked:
		findings = append(findings, domain.Finding{
			Message:  "The URL resolves into private or internal network address space, a hallmark of server-side request forgery bait",
			Severity: domain.SeverityDanger,
		})
	case urlresolver.ErrorTypeDNS:
		findings = append(findings, domain.Finding{
			Message:  "The domain does not resolve; it may be parked, expired or not yet activated",
			Severity: domain.SeverityMedium,
		})
	case urlresolver.ErrorTypeTimeout:
		findings = append(findings, domain.Finding{
			Message:  "The site did not respond within the allowed time",
			Severity: domain.SeverityLow,
		})
	case urlresolver.ErrorTypeUnknown:
		findings = append(findings, domain.Finding{
			Message:  "The site could not be reached or redirects endlessly",
			Severity: domain.SeverityLow,
		})
	}

	if resolution.RedirectCount >= 3 {
		findings = append(findings, domain.Finding{
			Message:  fmt.Sprintf("The link passes through %d redirects before landing", resolution.RedirectCount),
			Severity: domain.SeverityLow,
		})
	}

	if resolution.Reachable && resolution.FinalURL != "" {
		if final, err := url.Parse(resolution.FinalURL); err == nil {
			if !strings.EqualFold(final.Hostname(), parsed.Hostname()) {
				findings = append(findings, domain.Finding{
					Message:  fmt.Sprintf("The link silently forwards to a different domain: %s", final.Hostname()),
					Severity: domain.SeverityMedium,
				})
			}
		}
	}

	return findings
}

// resolutionAnswered reports whether the resolver produced a usable answer.
// Blocked is an answer: the destination was identified and refused.
func resolutionAnswered(resolution urlresolver.Resolution) bool {
	return resolution.Reachable || resolution.ErrorType == urlresolver.ErrorTypeBlocked
}

// punycodeHost returns the Unicode rendering of an xn-- host, or "" when the
// host carries no punycode labels.
func punycodeHost(host string) string {
	if !strings.Contains(host, "xn--") {
		return ""
	}

	unicode, err := idna.Lookup.ToUnicode(host)
	if err != nil || unicode == host {
		return host
	}

	return unicode
}

func matchKeywords(haystack string, keywords []string) []string {
	haystack = strings.ToLower(haystack)

	var matched []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}

	return matched
}
