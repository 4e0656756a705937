package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/demo"
	"github.com/smartcontractkit/phe/internal/xof"
)

const tomlConfigVersion = "1.0.0"

// Domain separation tag of the seeded blinding factor source.
const seededRandDST = "phe/phedemo/blinding-factors"

type pheConfig struct {
	Version        string
	Log            logConfig
	RSA            rsaConfig
	Paillier       paillierConfig
	Random         randomConfig
	ValidatePrimes bool
}

type logConfig struct {
	Level string
}

// Key parameters are decimal strings, as TOML integers are limited to 64 bits.
type rsaConfig struct {
	P string
	Q string
	E string
}

type paillierConfig struct {
	P string
	Q string
}

type randomConfig struct {
	Seed string // if set, blinding factors are derived deterministically from the seed
}

var defaultConfig = pheConfig{
	Version: tomlConfigVersion,
	Log: logConfig{
		Level: "info",
	},
	RSA: rsaConfig{
		P: "10000019",
		Q: "10000079",
		E: "10000103",
	},
	Paillier: paillierConfig{
		P: "10007",
		Q: "10009",
	},
	Random: randomConfig{
		Seed: "",
	},
	ValidatePrimes: true,
}

func getDefaultConfigCopy() pheConfig {
	config := defaultConfig
	return config
}

func loadConfig(file string) (pheConfig, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return pheConfig{}, err
	}

	config := getDefaultConfigCopy()
	if err := toml.Unmarshal(b, &config); err != nil {
		return pheConfig{}, err
	}
	if config.Version != tomlConfigVersion {
		return pheConfig{}, fmt.Errorf("unsupported config version %q (expected %q)", config.Version, tomlConfigVersion)
	}
	return config, nil
}

func writeConfigToFile(config pheConfig, file string) error {
	b, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0644)
}

func dumpConfig(config pheConfig, w io.Writer) error {
	b, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// sessionConfig parses the key parameters and sets up the source of randomness.
func sessionConfig(config pheConfig) (demo.Config, error) {
	var cfg demo.Config
	values := []struct {
		name string
		text string
		dst  *bigint.Int
	}{
		{"rsa.p", config.RSA.P, &cfg.RSA.P},
		{"rsa.q", config.RSA.Q, &cfg.RSA.Q},
		{"rsa.e", config.RSA.E, &cfg.RSA.E},
		{"paillier.p", config.Paillier.P, &cfg.Paillier.P},
		{"paillier.q", config.Paillier.Q, &cfg.Paillier.Q},
	}
	for _, v := range values {
		x, err := bigint.Parse(v.text)
		if err != nil {
			return demo.Config{}, fmt.Errorf("invalid %s: %w", v.name, err)
		}
		*v.dst = x
	}

	cfg.Rand = rand.Reader
	if config.Random.Seed != "" {
		// bind the stream to the Paillier key, so one seed gives unrelated blinding factors under different keys
		h := xof.NewSeeded(seededRandDST, config.Random.Seed)
		h.WriteBytes(cfg.Paillier.P.Bytes())
		h.WriteBytes(cfg.Paillier.Q.Bytes())
		cfg.Rand = h
	}
	cfg.ValidatePrimes = config.ValidatePrimes
	return cfg, nil
}
