// Package config loads the settings of the dhcpdash preview server.
//
// Settings come from an optional TOML file:
//
//	listen           = "127.0.0.1:8080"
//	secret_keys      = ["password", "secret", "key"]
//	can_show_secrets = false
//	auto_expand      = "none"   # "none", "all" or a child count
//	page_size        = 50
//	universe         = 4
//
// Command-line flags override file values.
package config

import (
	"net"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dhcpdash/pkg/dhcpopt"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

// DefaultListen is the address the server binds to without configuration.
const DefaultListen = "127.0.0.1:8080"

// Config holds the server settings.
type Config struct {
	Listen         string              `toml:"listen"`
	SecretKeys     []string            `toml:"secret_keys"`
	CanShowSecrets bool                `toml:"can_show_secrets"`
	AutoExpand     jsontree.AutoExpand `toml:"auto_expand"`
	PageSize       int                 `toml:"page_size"`
	Universe       dhcpopt.Universe    `toml:"universe"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Listen:     DefaultListen,
		SecretKeys: append([]string(nil), jsontree.DefaultSecretKeys...),
		AutoExpand: jsontree.AutoExpandNone,
		PageSize:   jsontree.DefaultPageSize,
		Universe:   dhcpopt.UniverseIPv4,
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid listen address %q", c.Listen)
	}
	if c.PageSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "page_size must be positive, got %d", c.PageSize)
	}
	if !c.Universe.Valid() {
		return errors.New(errors.ErrCodeInvalidUniverse, "universe must be 4 or 6, got %d", c.Universe)
	}
	for _, k := range c.SecretKeys {
		if k == "" {
			return errors.New(errors.ErrCodeInvalidInput, "secret_keys must not contain empty keys")
		}
	}
	return nil
}

// TreeOptions returns the renderer options implied by the settings.
func (c Config) TreeOptions() jsontree.Options {
	return jsontree.Options{
		AutoExpand:     c.AutoExpand,
		SecretKeys:     slices.Clone(c.SecretKeys),
		CanShowSecrets: c.CanShowSecrets,
		PageSize:       c.PageSize,
	}
}
