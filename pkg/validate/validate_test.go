package validate_test

import (
	"strings"
	"testing"

	"safescan/pkg/validate"

	"github.com/stretchr/testify/require"
)

func TestCheckEVMAddress_ValidChecksums(t *testing.T) {
	// EIP-55 reference vectors
	for _, addr := range []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	} {
		c := validate.CheckEVMAddress(addr)
		require.True(t, c.WellFormed, addr)
		require.True(t, c.HasChecksum, addr)
		require.True(t, c.ChecksumOK, addr)
	}
}

func TestCheckEVMAddress_BadChecksum(t *testing.T) {
	// flip the case of one checksum-bearing letter
	c := validate.CheckEVMAddress("0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.True(t, c.WellFormed)
	require.True(t, c.HasChecksum)
	require.False(t, c.ChecksumOK)
}

func TestCheckEVMAddress_LowercaseHasNoChecksum(t *testing.T) {
	c := validate.CheckEVMAddress(strings.ToLower("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	require.True(t, c.WellFormed)
	require.False(t, c.HasChecksum)
	require.True(t, c.ChecksumOK)
}

func TestCheckEVMAddress_Malformed(t *testing.T) {
	for _, s := range []string{"", "0x123", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0xZZeb6053F3E94C9b9A09f33669435E7Ef1BeAed"} {
		require.False(t, validate.CheckEVMAddress(s).WellFormed, s)
	}
}

func TestCheckBTCAddress_P2PKH(t *testing.T) {
	c := validate.CheckBTCAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	require.True(t, c.WellFormed)
	require.Equal(t, validate.BTCFormatP2PKH, c.Format)
	require.True(t, c.ChecksumOK)
}

func TestCheckBTCAddress_P2SH(t *testing.T) {
	c := validate.CheckBTCAddress("3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy")
	require.True(t, c.WellFormed)
	require.Equal(t, validate.BTCFormatP2SH, c.Format)
	require.True(t, c.ChecksumOK)
}

func TestCheckBTCAddress_Bech32(t *testing.T) {
	c := validate.CheckBTCAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4")
	require.True(t, c.WellFormed)
	require.Equal(t, validate.BTCFormatBech32, c.Format)
	require.True(t, c.ChecksumOK)
}

func TestCheckBTCAddress_BadChecksum(t *testing.T) {
	// last character altered
	c := validate.CheckBTCAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb")
	require.True(t, c.WellFormed)
	require.False(t, c.ChecksumOK)
}

func TestCheckBTCAddress_Bech32BadChecksum(t *testing.T) {
	// last character altered
	c := validate.CheckBTCAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5")
	require.True(t, c.WellFormed)
	require.Equal(t, validate.BTCFormatBech32, c.Format)
	require.False(t, c.ChecksumOK)
}

func TestIsSolanaMint(t *testing.T) {
	// USDC and wrapped SOL mints
	require.True(t, validate.IsSolanaMint("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"))
	require.True(t, validate.IsSolanaMint("So11111111111111111111111111111111111111112"))

	require.False(t, validate.IsSolanaMint("notbase58!!!"))
	require.False(t, validate.IsSolanaMint("abc"))
	// valid base58 but wrong decoded length
	require.False(t, validate.IsSolanaMint("1111111111111111111111111111111111111111"))
}

func TestLooksLikeBTCAddress(t *testing.T) {
	require.True(t, validate.LooksLikeBTCAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"))
	require.True(t, validate.LooksLikeBTCAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"))
	require.False(t, validate.LooksLikeBTCAddress("hello world"))
	require.False(t, validate.LooksLikeBTCAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
}
