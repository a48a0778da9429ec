package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the application configuration, loadable from a yaml file with
// environment variable overrides.
type Config struct {
	// Environment selects logger behavior (development, production).
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains the API server settings.
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on.
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request.
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the time allowed to read request headers.
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out response writes.
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the keep-alive idle bound.
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the per-request handling bound.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes bounds request header parsing.
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath is where Prometheus metrics are exposed.
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// RateLimit configures the sliding-window admission control.
	RateLimit struct {
		// Window is the sliding window length.
		Window time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m" yaml:"window"`
		// MaxRequests is the per-client budget within one window.
		MaxRequests int `env:"RATE_LIMIT_MAX_REQUESTS" env-default:"30" yaml:"maxRequests"`
		// CleanupInterval is how often stale buckets are swept.
		CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"2m" yaml:"cleanupInterval"`
		// MaxClients caps the number of tracked client identifiers.
		MaxClients int `env:"RATE_LIMIT_MAX_CLIENTS" env-default:"10000" yaml:"maxClients"`
	} `yaml:"rateLimit"`

	// Scan configures the scanning pipeline itself.
	Scan struct {
		// MaxInputLength is the longest accepted input string.
		MaxInputLength int `env:"SCAN_MAX_INPUT_LENGTH" env-default:"2000" yaml:"maxInputLength"`
		// SignalTimeout bounds each upstream signal-source call.
		SignalTimeout time.Duration `env:"SCAN_SIGNAL_TIMEOUT" env-default:"6s" yaml:"signalTimeout"`
		// MaxRedirects bounds the URL resolver's hop count.
		MaxRedirects int `env:"SCAN_MAX_REDIRECTS" env-default:"5" yaml:"maxRedirects"`
		// HopTimeout bounds each resolver hop.
		HopTimeout time.Duration `env:"SCAN_HOP_TIMEOUT" env-default:"5s" yaml:"hopTimeout"`
	} `yaml:"scan"`

	// Thresholds are the tunable token risk cutoffs. They are content
	// policy, not part of the scanner's contract.
	Thresholds struct {
		// MinLiquidityUSD below which a low-liquidity finding is raised.
		MinLiquidityUSD float64 `env:"THRESHOLD_MIN_LIQUIDITY_USD" env-default:"10000" yaml:"minLiquidityUsd"`
		// MaxFDVToLiquidityRatio above which a finding is raised.
		MaxFDVToLiquidityRatio float64 `env:"THRESHOLD_MAX_FDV_LIQUIDITY_RATIO" env-default:"100" yaml:"maxFdvToLiquidityRatio"`
		// MaxTaxPercent above which buy/sell tax findings are raised.
		MaxTaxPercent float64 `env:"THRESHOLD_MAX_TAX_PERCENT" env-default:"10" yaml:"maxTaxPercent"`
		// NewPairMaxAgeHours under which a pair counts as new.
		NewPairMaxAgeHours float64 `env:"THRESHOLD_NEW_PAIR_MAX_AGE_HOURS" env-default:"24" yaml:"newPairMaxAgeHours"`
	} `yaml:"thresholds"`

	// Heuristics configure the static URL checks.
	Heuristics struct {
		// SuspiciousTLDs raise a finding when the host ends in one of them.
		SuspiciousTLDs []string `env:"HEURISTICS_SUSPICIOUS_TLDS" env-separator:"," env-default:"zip,mov,xyz,top,gq,tk,ml,cf,icu,rest" yaml:"suspiciousTlds"` //nolint: lll
		// ScamKeywords raise a finding when present in the URL.
		ScamKeywords []string `env:"HEURISTICS_SCAM_KEYWORDS" env-separator:"," env-default:"airdrop,claim,giveaway,free-mint,walletconnect-,wallet-validation,seed-phrase,secret-recovery" yaml:"scamKeywords"` //nolint: lll
		// MaxSubdomainDepth above which a spoofing-pattern finding is raised.
		MaxSubdomainDepth int `env:"HEURISTICS_MAX_SUBDOMAIN_DEPTH" env-default:"3" yaml:"maxSubdomainDepth"`
		// BlacklistHosts is an optional regulator/government blacklist of
		// hostnames. Empty disables the check.
		BlacklistHosts []string `env:"HEURISTICS_BLACKLIST_HOSTS" env-separator:"," env-default:"" yaml:"blacklistHosts"`
	} `yaml:"heuristics"`

	// Upstream holds endpoints of the external signal services.
	Upstream struct {
		// GoPlusBaseURL overrides the GoPlus API endpoint (empty = default).
		GoPlusBaseURL string `env:"UPSTREAM_GOPLUS_BASE_URL" env-default:"" yaml:"goPlusBaseUrl"`
		// DexScreenerBaseURL overrides the DexScreener endpoint.
		DexScreenerBaseURL string `env:"UPSTREAM_DEXSCREENER_BASE_URL" env-default:"" yaml:"dexScreenerBaseUrl"`
		// SourcifyBaseURL overrides the Sourcify endpoint.
		SourcifyBaseURL string `env:"UPSTREAM_SOURCIFY_BASE_URL" env-default:"" yaml:"sourcifyBaseUrl"`
		// EthRPCURL is the Ethereum JSON-RPC endpoint used for ENS resolution.
		EthRPCURL string `env:"UPSTREAM_ETH_RPC_URL" env-default:"https://eth.llamarpc.com" yaml:"ethRpcUrl"`
		// ENSRegistry overrides the ENS registry contract (empty = mainnet).
		ENSRegistry string `env:"UPSTREAM_ENS_REGISTRY" env-default:"" yaml:"ensRegistry"`
	} `yaml:"upstream"`

	// GracefulShutdownTimeout bounds the wait for in-flight requests on stop.
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the yaml config at configPath, applying environment overrides.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
