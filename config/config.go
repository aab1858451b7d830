package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"flipnet/core"
	"flipnet/crypto"
	"flipnet/native/wager"
)

// Config is the daemon configuration persisted as TOML.
type Config struct {
	RPCAddress     string   `toml:"RPCAddress"`
	MetricsAddress string   `toml:"MetricsAddress"`
	DataDir        string   `toml:"DataDir"`
	LogLevel       string   `toml:"LogLevel"`
	LogFile        string   `toml:"LogFile"`
	RPCAuthToken   string   `toml:"RPCAuthToken"`
	Owner          string   `toml:"Owner"`
	PausedModules  []string `toml:"PausedModules"`

	Oracle  OracleConfig     `toml:"Oracle"`
	Wager   WagerConfig      `toml:"Wager"`
	Genesis []GenesisAccount `toml:"Genesis"`
}

// OracleConfig tunes the in-process randomness service.
type OracleConfig struct {
	FeePerGas              string `toml:"FeePerGas"`
	FulfillIntervalSeconds uint64 `toml:"FulfillIntervalSeconds"`
}

// WagerConfig carries the launch parameters of the wager engine. Amount
// fields are decimal strings so they survive beyond 63 bits.
type WagerConfig struct {
	FeeRateBps          uint64 `toml:"FeeRateBps"`
	MinBet              string `toml:"MinBet"`
	MaxBet              string `toml:"MaxBet"`
	DividendThreshold   string `toml:"DividendThreshold"`
	Provider            string `toml:"Provider"`
	CallbackGasLimit    uint64 `toml:"CallbackGasLimit"`
	TimeoutSeconds      uint64 `toml:"TimeoutSeconds"`
	InitialBonusReserve string `toml:"InitialBonusReserve"`
	BonusTreasury       string `toml:"BonusTreasury"`
}

// GenesisAccount seeds balances at first boot.
type GenesisAccount struct {
	Address string `toml:"Address"`
	FLP     string `toml:"FLP"`
	SFLP    string `toml:"SFLP"`
	ZFLP    string `toml:"ZFLP"`
}

// Load reads the configuration from path, creating a default file when none
// exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = ":8645"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./flipnet-data"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	if c.Oracle.FulfillIntervalSeconds == 0 {
		c.Oracle.FulfillIntervalSeconds = 2
	}
	if c.PausedModules == nil {
		c.PausedModules = []string{}
	}
}

// Validate checks the configuration for misconfiguration a daemon boot would
// otherwise surface much later.
func (c *Config) Validate() error {
	if _, err := decodeAddr(c.Owner); err != nil {
		return fmt.Errorf("config: Owner: %w", err)
	}
	if _, err := decodeAddr(c.Wager.Provider); err != nil {
		return fmt.Errorf("config: Wager.Provider: %w", err)
	}
	if c.Wager.FeeRateBps > 10_000 {
		return fmt.Errorf("config: Wager.FeeRateBps %d exceeds 10000", c.Wager.FeeRateBps)
	}
	if c.Wager.CallbackGasLimit == 0 {
		return fmt.Errorf("config: Wager.CallbackGasLimit must be positive")
	}
	if c.Wager.TimeoutSeconds == 0 {
		return fmt.Errorf("config: Wager.TimeoutSeconds must be positive")
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"Oracle.FeePerGas", c.Oracle.FeePerGas},
		{"Wager.MinBet", c.Wager.MinBet},
		{"Wager.MaxBet", c.Wager.MaxBet},
		{"Wager.DividendThreshold", c.Wager.DividendThreshold},
		{"Wager.InitialBonusReserve", c.Wager.InitialBonusReserve},
		{"Wager.BonusTreasury", c.Wager.BonusTreasury},
	} {
		if _, err := parseAmount(field.value); err != nil {
			return fmt.Errorf("config: %s: %w", field.name, err)
		}
	}
	for i, acct := range c.Genesis {
		if _, err := decodeAddr(acct.Address); err != nil {
			return fmt.Errorf("config: Genesis[%d].Address: %w", i, err)
		}
		for _, amount := range []string{acct.FLP, acct.SFLP, acct.ZFLP} {
			if _, err := parseAmount(amount); err != nil {
				return fmt.Errorf("config: Genesis[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// NodeConfig converts the file representation into core wiring parameters.
func (c *Config) NodeConfig() (core.Config, error) {
	if err := c.Validate(); err != nil {
		return core.Config{}, err
	}
	owner, _ := decodeAddr(c.Owner)
	provider, _ := decodeAddr(c.Wager.Provider)
	out := core.Config{
		Owner: owner,
		WagerParams: &wager.Params{
			FeeRateBps:          c.Wager.FeeRateBps,
			MinBet:              mustAmount(c.Wager.MinBet),
			MaxBet:              mustAmount(c.Wager.MaxBet),
			DividendThreshold:   mustAmount(c.Wager.DividendThreshold),
			Provider:            provider,
			CallbackGasLimit:    c.Wager.CallbackGasLimit,
			TimeoutSeconds:      c.Wager.TimeoutSeconds,
			InitialBonusReserve: mustAmount(c.Wager.InitialBonusReserve),
		},
		OracleFeePerGas: mustAmount(c.Oracle.FeePerGas),
		BonusTreasury:   mustAmount(c.Wager.BonusTreasury),
		PausedModules:   append([]string{}, c.PausedModules...),
	}
	for _, acct := range c.Genesis {
		addr, _ := decodeAddr(acct.Address)
		out.Genesis = append(out.Genesis, core.GenesisAccount{
			Address: addr,
			FLP:     mustAmount(acct.FLP),
			SFLP:    mustAmount(acct.SFLP),
			ZFLP:    mustAmount(acct.ZFLP),
		})
	}
	return out, nil
}

func decodeAddr(s string) ([20]byte, error) {
	var out [20]byte
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return out, fmt.Errorf("address is empty")
	}
	decoded, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return out, err
	}
	copy(out[:], decoded.Bytes())
	return out, nil
}

func parseAmount(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func mustAmount(s string) *big.Int {
	amount, err := parseAmount(s)
	if err != nil {
		return big.NewInt(0)
	}
	return amount
}

// createDefault creates and saves a default configuration file. The owner
// address is freshly generated; operators replace it before funding anything.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	owner := key.PubKey().Address().String()
	cfg := &Config{
		RPCAddress:     ":8645",
		MetricsAddress: ":9090",
		DataDir:        "./flipnet-data",
		LogLevel:       "info",
		Owner:          owner,
		PausedModules:  []string{},
		Oracle: OracleConfig{
			FeePerGas:              "1",
			FulfillIntervalSeconds: 2,
		},
		Wager: WagerConfig{
			FeeRateBps:        350,
			MinBet:            "1000000000000000",
			MaxBet:            "0",
			DividendThreshold: "1000000000000000000",
			Provider:          owner,
			CallbackGasLimit:  200_000,
			TimeoutSeconds:    3_600,
			BonusTreasury:     "1000000000000000000000000",
		},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
