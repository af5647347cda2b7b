package emulator

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/duet/cpu"
)

// Config describes how machines are seeded and run.
type Config struct {
	Identity  Identity         `toml:"identity"`
	Registers map[string]int64 `toml:"registers"` // Initial register values.
	Limit     int              `toml:"limit"`     // Maximum steps, 0 for no limit.
	Verbose   bool             `toml:"verbose"`
}

// Identity is the register that tells the duet machines apart, and the
// value it holds in each machine.
type Identity struct {
	Register string  `toml:"register"`
	Values   []int64 `toml:"values"`
}

// DefaultConfig returns register 'p' holding 0 and 1, with no step limit.
func DefaultConfig() *Config {
	return &Config{
		Identity: Identity{
			Register: "p",
			Values:   []int64{0, 1},
		},
	}
}

// LoadConfig reads a TOML configuration, filling unset fields from DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return ParseConfig(string(data))
}

// ParseConfig decodes TOML text, filling unset fields from DefaultConfig.
func ParseConfig(text string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, ErrConfigKey(keys[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the register names, identity count and limit.
func (cfg *Config) Validate() (err error) {
	if _, err = registerIndex(cfg.Identity.Register); err != nil {
		return
	}
	if len(cfg.Identity.Values) != MACHINE_COUNT {
		err = ErrConfigIdentity
		return
	}
	for name := range cfg.Registers {
		if _, err = registerIndex(name); err != nil {
			return
		}
	}
	if cfg.Limit < 0 {
		err = ErrConfigLimit
		return
	}

	return
}

// registerIndex maps a register name to its index.
func registerIndex(name string) (index int, err error) {
	if len(name) != 1 || name[0] < 'a' || name[0] > 'z' {
		err = fmt.Errorf("%w: '%v'", ErrConfigRegister, name)
		return
	}

	index = int(name[0] - 'a')
	return
}

// preset writes the configured initial register values.
func (cfg *Config) preset(register *[cpu.REGISTER_COUNT]int64) {
	for name, value := range cfg.Registers {
		index, err := registerIndex(name)
		if err != nil {
			continue
		}
		register[index] = value
	}
}
