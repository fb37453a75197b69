package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/features"
	"github.com/fortiblox/x1-genesis/pkg/rent"
)

// Config is the resolved configuration for a genesis run.
type Config struct {
	LogLevel string
	Rent     rent.Rent
	Features features.Set
}

// DefaultConfig returns the configuration used when no file is given:
// default rent and every migration feature active.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Rent:     rent.Default(),
		Features: features.All(),
	}
}

type fileConfig struct {
	LogLevel string         `toml:"log_level"`
	Rent     rentConfig     `toml:"rent"`
	Features featuresConfig `toml:"features"`
}

type rentConfig struct {
	LamportsPerByteYear uint64  `toml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `toml:"exemption_threshold"`
	BurnPercent         uint8   `toml:"burn_percent"`
}

type featuresConfig struct {
	All    bool     `toml:"all"`
	Active []string `toml:"active"`
}

// LoadConfig reads a TOML file and overlays the keys it defines onto
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("rent", "lamports_per_byte_year") {
		cfg.Rent.LamportsPerByteYear = raw.Rent.LamportsPerByteYear
	}
	if meta.IsDefined("rent", "exemption_threshold") {
		if raw.Rent.ExemptionThreshold < 0 {
			return Config{}, fmt.Errorf("load config: rent.exemption_threshold must not be negative")
		}
		cfg.Rent.ExemptionThreshold = raw.Rent.ExemptionThreshold
	}
	if meta.IsDefined("rent", "burn_percent") {
		if raw.Rent.BurnPercent > 100 {
			return Config{}, fmt.Errorf("load config: rent.burn_percent must be at most 100")
		}
		cfg.Rent.BurnPercent = raw.Rent.BurnPercent
	}

	switch {
	case meta.IsDefined("features", "all") && raw.Features.All:
		if meta.IsDefined("features", "active") {
			return Config{}, fmt.Errorf("load config: features.all and features.active are exclusive")
		}
		cfg.Features = features.All()
	case meta.IsDefined("features", "active"):
		set, err := featureSet(raw.Features.Active)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.Features = set
	case meta.IsDefined("features", "all"):
		cfg.Features = features.None()
	}

	return cfg, nil
}

// ParseFeatures parses a --features value: "all", "none", or a comma
// separated list of feature names or addresses.
func ParseFeatures(s string) (features.Set, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return features.All(), nil
	case "none", "":
		return features.None(), nil
	}
	return featureSet(strings.Split(s, ","))
}

func featureSet(list []string) (features.Set, error) {
	ids := make([]types.Pubkey, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := features.Lookup(item)
		if err != nil {
			return features.Set{}, err
		}
		ids = append(ids, id)
	}
	return features.NewSet(ids...), nil
}
