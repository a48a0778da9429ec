package domain

// ReportMetadata is the closed set of per-type metadata variants. Modeling it
// as an interface keyed by InputType keeps a wallet report from ever carrying
// token fields: only the variant matching the report's InputType is populated.
type ReportMetadata interface {
	// Kind returns the InputType this variant belongs to.
	Kind() InputType
}

// URLMetadata describes what the URL scanner learned about a link. Every
// field is optional because any signal source may be unavailable.
type URLMetadata struct {
	FinalURL      string `json:"finalUrl,omitempty"`
	RedirectCount int    `json:"redirectCount"`
	Reachable     bool   `json:"reachable"`
	StatusCode    int    `json:"statusCode,omitempty"`
	UsesHTTPS     bool   `json:"usesHttps"`
	// ErrorType is one of timeout, dns, blocked, unknown when resolution failed.
	ErrorType    string `json:"errorType,omitempty"`
	PhishingHit  bool   `json:"phishingHit"`
	PunycodeHost bool   `json:"punycodeHost"`
}

func (URLMetadata) Kind() InputType { return InputTypeURL }

// TokenMetadata aggregates DexScreener market data, GoPlus audit flags and
// Sourcify verification for an EVM token contract.
type TokenMetadata struct {
	ChainID     string `json:"chainId,omitempty"`
	PairAddress string `json:"pairAddress,omitempty"`
	DexID       string `json:"dexId,omitempty"`

	LiquidityUSD   *float64 `json:"liquidityUsd,omitempty"`
	Volume24h      *float64 `json:"volume24h,omitempty"`
	FDV            *float64 `json:"fdv,omitempty"`
	PriceChange24h *float64 `json:"priceChange24h,omitempty"`
	PairAgeHours   *float64 `json:"pairAgeHours,omitempty"`

	IsHoneypot         *bool    `json:"isHoneypot,omitempty"`
	IsOpenSource       *bool    `json:"isOpenSource,omitempty"`
	IsMintable         *bool    `json:"isMintable,omitempty"`
	BuyTaxPercent      *float64 `json:"buyTaxPercent,omitempty"`
	SellTaxPercent     *float64 `json:"sellTaxPercent,omitempty"`
	HiddenOwner        *bool    `json:"hiddenOwner,omitempty"`
	IsProxy            *bool    `json:"isProxy,omitempty"`
	CanSelfDestruct    *bool    `json:"canSelfDestruct,omitempty"`
	HasBlacklist       *bool    `json:"hasBlacklist,omitempty"`
	TransferPausable   *bool    `json:"transferPausable,omitempty"`
	SlippageModifiable *bool    `json:"slippageModifiable,omitempty"`
	OwnerAddress       string   `json:"ownerAddress,omitempty"`
	HolderCount        *int     `json:"holderCount,omitempty"`

	SourcifyVerified *bool `json:"sourcifyVerified,omitempty"`
}

func (TokenMetadata) Kind() InputType { return InputTypeToken }

// SolanaMetadata carries market data for a Solana mint plus the GoPlus
// Solana security flags that apply to SPL tokens.
type SolanaMetadata struct {
	Mint        string `json:"mint"`
	PairAddress string `json:"pairAddress,omitempty"`
	DexID       string `json:"dexId,omitempty"`

	LiquidityUSD *float64 `json:"liquidityUsd,omitempty"`
	Volume24h    *float64 `json:"volume24h,omitempty"`
	FDV          *float64 `json:"fdv,omitempty"`
	PairAgeHours *float64 `json:"pairAgeHours,omitempty"`

	MintableDisabled *bool `json:"mintableDisabled,omitempty"`
	FreezeDisabled   *bool `json:"freezeDisabled,omitempty"`
}

func (SolanaMetadata) Kind() InputType { return InputTypeSolanaToken }

// WalletMetadata describes an EVM or Bitcoin wallet address. It serves both
// the wallet and btcWallet input types; Kind returns the EVM tag as the
// canonical one, and the report's InputType is authoritative for which chain
// family the address belongs to.
type WalletMetadata struct {
	Address       string `json:"address"`
	ChecksumValid bool   `json:"checksumValid"`
	// IsFlagged is true when GoPlus returned any malicious-address flag.
	IsFlagged bool `json:"isFlagged"`
	// GoPlusFlags are the raised flag names across the checked chains.
	GoPlusFlags []string `json:"goPlusFlags,omitempty"`
	// Explorers maps chain name to a block-explorer URL for the address.
	// Built statically, no outbound calls.
	Explorers map[string]string `json:"explorers,omitempty"`
}

func (WalletMetadata) Kind() InputType { return InputTypeWallet }

// TxMetadata describes a transaction hash and the chain-detection guess.
type TxMetadata struct {
	Hash string `json:"hash"`
	// LikelyChain is the best-guess network; detection is heuristic only.
	LikelyChain string `json:"likelyChain,omitempty"`
	// CandidateChains lists every network the hash format is valid on.
	CandidateChains []string          `json:"candidateChains,omitempty"`
	Explorers       map[string]string `json:"explorers,omitempty"`
}

func (TxMetadata) Kind() InputType { return InputTypeTxHash }

// ENSMetadata describes an ENS name resolution attempt.
type ENSMetadata struct {
	// ENSName is the normalized (lowercased) name.
	ENSName string `json:"ensName"`
	// ResolutionStatus is "resolved" or "failed".
	ResolutionStatus string `json:"resolutionStatus"`
	ResolvedAddress  string `json:"resolvedAddress,omitempty"`
	ResolutionError  string `json:"resolutionError,omitempty"`
	// Wallet carries the delegated wallet scan metadata on success.
	Wallet *WalletMetadata `json:"wallet,omitempty"`
}

func (ENSMetadata) Kind() InputType { return InputTypeENS }
