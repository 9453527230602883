// Package config loads command line defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/branched-services/go-chunkstage"
)

// Network names a known deployment network.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
	Local   Network = "local"
)

// Published staging contract on mainnet and testnet.
const publishedStaging = "0x0e1ca3011bdd07246d4d16d909dbb2d6953a86c4735d5acf5865d962c630cce7"

// ErrUnknownNetwork is returned for a network without defaults.
var ErrUnknownNetwork = errors.New("config: unknown network")

// NetworkDefaults are the per-network fallbacks for unset values.
type NetworkDefaults struct {
	NodeURL string
	Staging chunkstage.Address
}

var networks = map[Network]NetworkDefaults{
	Mainnet: {NodeURL: "https://fullnode.mainnet.aptoslabs.com", Staging: chunkstage.MustParseAddress(publishedStaging)},
	Testnet: {NodeURL: "https://fullnode.testnet.aptoslabs.com", Staging: chunkstage.MustParseAddress(publishedStaging)},
	Devnet:  {NodeURL: "https://fullnode.devnet.aptoslabs.com", Staging: chunkstage.MustParseAddress("0x7")},
	Local:   {NodeURL: "http://127.0.0.1:8080", Staging: chunkstage.MustParseAddress("0x7")},
}

// Defaults returns the defaults for network.
func Defaults(network Network) (NetworkDefaults, error) {
	d, ok := networks[Network(strings.ToLower(string(network)))]
	if !ok {
		return NetworkDefaults{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, network)
	}
	return d, nil
}

// Config holds values read from CHUNKSTAGE_* variables. Command line flags
// override them.
type Config struct {
	Network        Network `env:"CHUNKSTAGE_NETWORK" envDefault:"mainnet"`
	NodeURL        string  `env:"CHUNKSTAGE_NODE_URL"`
	StagingAddress string  `env:"CHUNKSTAGE_STAGING_ADDRESS"`
	ChunkSize      int     `env:"CHUNKSTAGE_CHUNK_SIZE" envDefault:"61440"`
	OutputDir      string  `env:"CHUNKSTAGE_OUTPUT_DIR" envDefault:"."`
	Compiler       string  `env:"CHUNKSTAGE_COMPILER" envDefault:"aptos"`
}

// Load reads Config from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads Config from the given variables instead of the process
// environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// ResolvedNodeURL returns NodeURL or the network's default.
func (c *Config) ResolvedNodeURL() (string, error) {
	if c.NodeURL != "" {
		return c.NodeURL, nil
	}
	d, err := Defaults(c.Network)
	if err != nil {
		return "", err
	}
	return d.NodeURL, nil
}

// ResolvedStaging returns StagingAddress or the network's default.
func (c *Config) ResolvedStaging() (chunkstage.Address, error) {
	if c.StagingAddress != "" {
		return chunkstage.ParseAddress(c.StagingAddress)
	}
	d, err := Defaults(c.Network)
	if err != nil {
		return chunkstage.Address{}, err
	}
	return d.Staging, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d", chunkstage.ErrInvalidChunkSize, c.ChunkSize)
	}
	staging, err := c.ResolvedStaging()
	if err != nil {
		return err
	}
	if staging.IsZero() {
		return chunkstage.ErrMissingStagingAddress
	}
	_, err = c.ResolvedNodeURL()
	return err
}
