package scan

import (
	"net/url"
	"regexp"
	"strings"

	"safescan/pkg/domain"
	"safescan/pkg/validate"
)

var (
	evmAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	evmTxHashRe  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	bareHexRe    = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	// bare domain with at least one dot and an alphabetic TLD, optional path
	bareDomainRe = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(:\d+)?(/\S*)?$`)
)

// Classify maps a raw input string to exactly one InputType. It is total and
// deterministic: the same input always yields the same type and no input
// fails. Precedence follows the dispatch order below; the first match wins.
func Classify(raw string) domain.InputType {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.InputTypeUnknown
	}
	lower := strings.ToLower(s)

	// explicit scheme always wins, including schemes on .eth hosts
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return domain.InputTypeURL
		}

		return domain.InputTypeUnknown
	}

	if strings.HasSuffix(lower, ".eth") {
		return domain.InputTypeENS
	}

	if evmAddressRe.MatchString(s) {
		return domain.InputTypeWallet
	}
	if evmTxHashRe.MatchString(s) {
		return domain.InputTypeTxHash
	}
	// bare 64-hex is a transaction id on non-EVM chains (e.g. Bitcoin)
	if bareHexRe.MatchString(s) {
		return domain.InputTypeTxHash
	}

	if validate.LooksLikeBTCAddress(s) {
		return domain.InputTypeBTCWallet
	}

	if validate.IsSolanaMint(s) {
		return domain.InputTypeSolanaToken
	}
	// Solana transaction signatures are base58 and much longer than keys
	if len(s) >= 80 && len(s) <= 90 && validate.IsBase58(s) {
		return domain.InputTypeTxHash
	}

	if bareDomainRe.MatchString(s) {
		return domain.InputTypeURL
	}

	// address-shaped but structurally broken inputs
	if strings.HasPrefix(lower, "0x") {
		return domain.InputTypeInvalidAddress
	}
	if len(s) >= 20 && len(s) <= 90 && validate.IsBase58(s) {
		return domain.InputTypeInvalidAddress
	}

	return domain.InputTypeUnknown
}
