package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/phe/internal/demo"
	"github.com/smartcontractkit/phe/internal/logger"
	"github.com/smartcontractkit/phe/internal/metrics"
)

const (
	configFlag         = "config"
	dumpConfigFlag     = "dump-config"
	printMetricsFlag   = "print-metrics"
	logLevelFlag       = "log.level"
	rsaPFlag           = "rsa.p"
	rsaQFlag           = "rsa.q"
	rsaEFlag           = "rsa.e"
	paillierPFlag      = "paillier.p"
	paillierQFlag      = "paillier.q"
	randomSeedFlag     = "random.seed"
	validatePrimesFlag = "validate-primes"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "phedemo",
		Short:        "demonstrate homomorphic addition (Paillier) and multiplication (RSA)",
		Long:         "Interactive demo verifying the additive homomorphism of Paillier and the multiplicative homomorphism of textbook RSA on small keys.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runDemo,
	}

	flags := cmd.Flags()
	flags.StringP(configFlag, "c", "", "load config from the given toml file")
	flags.Bool(dumpConfigFlag, false, "print the effective config as toml and exit")
	flags.Bool(printMetricsFlag, false, "print the collected metrics on exit")
	flags.String(logLevelFlag, defaultConfig.Log.Level, "log level (trace, debug, info, warn, error)")
	flags.String(rsaPFlag, defaultConfig.RSA.P, "first RSA prime")
	flags.String(rsaQFlag, defaultConfig.RSA.Q, "second RSA prime")
	flags.String(rsaEFlag, defaultConfig.RSA.E, "RSA public exponent")
	flags.String(paillierPFlag, defaultConfig.Paillier.P, "first Paillier prime")
	flags.String(paillierQFlag, defaultConfig.Paillier.Q, "second Paillier prime")
	flags.String(randomSeedFlag, defaultConfig.Random.Seed, "derive blinding factors from this seed instead of crypto/rand (reproducible, insecure)")
	flags.Bool(validatePrimesFlag, defaultConfig.ValidatePrimes, "reject non-prime key parameters")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	config, err := getConfig(cmd)
	if err != nil {
		return err
	}

	if dump, _ := cmd.Flags().GetBool(dumpConfigFlag); dump {
		return dumpConfig(config, cmd.OutOrStdout())
	}

	level, err := logger.ParseLevel(config.Log.Level)
	if err != nil {
		return err
	}
	lggr := logger.NewLogger(level)

	cfg, err := sessionConfig(config)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	session, err := demo.NewSession(cfg, lggr, m)
	if err != nil {
		lggr.Critical("failed to set up session", logger.Fields{"error": err.Error()})
		return err
	}
	if err := session.RunMenu(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool(printMetricsFlag); show {
		return printMetrics(registry, cmd.OutOrStdout())
	}
	return nil
}

// getConfig returns the defaults, overridden by the config file (if given), overridden by explicitly set flags.
func getConfig(cmd *cobra.Command) (pheConfig, error) {
	config := getDefaultConfigCopy()

	flags := cmd.Flags()
	if file, _ := flags.GetString(configFlag); file != "" {
		var err error
		if config, err = loadConfig(file); err != nil {
			return pheConfig{}, fmt.Errorf("failed to load config %s: %w", file, err)
		}
	}

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{logLevelFlag, &config.Log.Level},
		{rsaPFlag, &config.RSA.P},
		{rsaQFlag, &config.RSA.Q},
		{rsaEFlag, &config.RSA.E},
		{paillierPFlag, &config.Paillier.P},
		{paillierQFlag, &config.Paillier.Q},
		{randomSeedFlag, &config.Random.Seed},
	}
	for _, f := range stringFlags {
		if flags.Changed(f.name) {
			*f.dst, _ = flags.GetString(f.name)
		}
	}
	if flags.Changed(validatePrimesFlag) {
		config.ValidatePrimes, _ = flags.GetBool(validatePrimesFlag)
	}
	return config, nil
}

func printMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
