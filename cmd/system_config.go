package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RandomConfig selects a seeded random Hamiltonian when no FCIDUMP is given.
type RandomConfig struct {
	NBasis int   `yaml:"nbasis"`
	Seed   int64 `yaml:"seed"`
}

// WavefunctionConfig selects the determinant basis.
type WavefunctionConfig struct {
	Kind       string `yaml:"kind"`    // doci, fullci or genci
	NOccUp     int    `yaml:"nocc_up"` // <= 0: FCIDUMP header, or half filling
	NOccDn     int    `yaml:"nocc_dn"`
	Excitation int    `yaml:"excitation"` // < 0: every determinant
}

// SystemConfig represents the system.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type SystemConfig struct {
	FCIDUMP      string             `yaml:"fcidump"`
	Random       RandomConfig       `yaml:"random"`
	Wavefunction WavefunctionConfig `yaml:"wavefunction"`
	Rows         int                `yaml:"rows"`
	Cols         int                `yaml:"cols"`
}

func defaultSystemConfig() SystemConfig {
	return SystemConfig{
		Random:       RandomConfig{NBasis: 4, Seed: 42},
		Wavefunction: WavefunctionConfig{Kind: kindFullCI, Excitation: -1},
		Rows:         -1,
		Cols:         -1,
	}
}

// loadSystemConfig parses path over the defaults. Unknown keys are errors so
// that typos do not silently fall back to defaults.
func loadSystemConfig(path string) (SystemConfig, error) {
	cfg := defaultSystemConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading system file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing system file %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c SystemConfig) validate() error {
	switch c.Wavefunction.Kind {
	case kindDOCI, kindFullCI, kindGenCI:
	default:
		return fmt.Errorf("unknown wavefunction kind %q (want %s, %s or %s)",
			c.Wavefunction.Kind, kindDOCI, kindFullCI, kindGenCI)
	}
	if c.FCIDUMP == "" && c.Random.NBasis <= 0 {
		return fmt.Errorf("random.nbasis must be > 0 when no fcidump is given, got %d", c.Random.NBasis)
	}
	return nil
}
