// Package validate contains pure structural validators for blockchain
// addresses: EIP-55 checksums for EVM, base58check/bech32 for Bitcoin and
// base58 mint checks for Solana. No validator performs network calls.
package validate

import (
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
)

// EVMCheck is the result of structurally validating an EVM address.
type EVMCheck struct {
	// WellFormed is true for 0x-prefixed 40-hex strings.
	WellFormed bool
	// HasChecksum is true when the address is mixed-case and therefore
	// carries an EIP-55 checksum to verify. All-lower or all-upper addresses
	// have no checksum information.
	HasChecksum bool
	// ChecksumOK is true when the EIP-55 checksum matches. It is also true
	// for well-formed addresses without checksum information.
	ChecksumOK bool
}

var hexAddrRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// CheckEVMAddress validates the structure and EIP-55 checksum of an address.
func CheckEVMAddress(s string) EVMCheck {
	if !hexAddrRe.MatchString(s) {
		return EVMCheck{}
	}

	hexPart := s[2:]
	lower := strings.ToLower(hexPart)
	upper := strings.ToUpper(hexPart)
	if hexPart == lower || hexPart == upper {
		// no case information, nothing to verify
		return EVMCheck{WellFormed: true, ChecksumOK: true}
	}

	// common.Address.Hex renders the canonical EIP-55 form
	checksummed := common.HexToAddress(s).Hex()

	return EVMCheck{
		WellFormed:  true,
		HasChecksum: true,
		ChecksumOK:  checksummed == "0x"+hexPart,
	}
}

// BTCFormat names the Bitcoin address encoding that was recognized.
type BTCFormat string

const (
	BTCFormatP2PKH  BTCFormat = "p2pkh"
	BTCFormatP2SH   BTCFormat = "p2sh"
	BTCFormatBech32 BTCFormat = "bech32"
)

// BTCCheck is the result of structurally validating a Bitcoin address.
type BTCCheck struct {
	// WellFormed is true when the string matches a known address pattern.
	WellFormed bool
	// Format is the recognized encoding when WellFormed.
	Format BTCFormat
	// ChecksumOK is true when the embedded checksum verifies.
	ChecksumOK bool
}

// CheckBTCAddress validates base58check (1..., 3...) and bech32/bech32m
// (bc1...) mainnet addresses.
func CheckBTCAddress(s string) BTCCheck {
	if strings.HasPrefix(strings.ToLower(s), "bc1") {
		hrp, _, _, err := bech32.DecodeGeneric(strings.ToLower(s))

		return BTCCheck{
			WellFormed: true,
			Format:     BTCFormatBech32,
			ChecksumOK: err == nil && hrp == "bc",
		}
	}

	if strings.HasPrefix(s, "1") || strings.HasPrefix(s, "3") {
		_, version, err := base58.CheckDecode(s)
		format := BTCFormatP2PKH
		if strings.HasPrefix(s, "3") {
			format = BTCFormatP2SH
		}
		if err != nil {
			return BTCCheck{WellFormed: true, Format: format}
		}

		return BTCCheck{
			WellFormed: true,
			Format:     format,
			ChecksumOK: version == 0x00 || version == 0x05,
		}
	}

	return BTCCheck{}
}

// LooksLikeBTCAddress reports whether s matches the rough shape of a Bitcoin
// address without verifying its checksum. Used by the input classifier.
func LooksLikeBTCAddress(s string) bool {
	if strings.HasPrefix(strings.ToLower(s), "bc1") {
		return len(s) >= 14 && len(s) <= 74
	}
	if !strings.HasPrefix(s, "1") && !strings.HasPrefix(s, "3") {
		return false
	}

	return len(s) >= 25 && len(s) <= 35 && IsBase58(s)
}

// IsSolanaMint reports whether s is a base58 string decoding to a 32-byte
// public key, the shape of a Solana mint or account address.
func IsSolanaMint(s string) bool {
	if len(s) < 32 || len(s) > 44 || !IsBase58(s) {
		return false
	}

	return len(base58.Decode(s)) == 32
}

// IsBase58 reports whether s consists solely of base58 alphabet characters.
func IsBase58(s string) bool {
	for _, r := range s {
		// base58 excludes 0, O, I and l
		switch {
		case r >= '1' && r <= '9':
		case r >= 'a' && r <= 'z' && r != 'l':
		case r >= 'A' && r <= 'Z' && r != 'I' && r != 'O':
		default:
			return false
		}
	}

	return len(s) > 0
}
