package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile     string
	verbose     bool
	logFormat   string
	metricsFile string
	noColor     bool

	registry   = prometheus.NewRegistry()
	runMetrics = metrics.New(registry)
	runLogger  = slog.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "induct",
	Short: "induct - symbolic concept learning over attribute-value examples",
	Long: `induct learns boolean rules from labelled attribute-value examples.

Two learners are available:
  current-best   keeps one hypothesis and repairs it on every contradiction
  version-space  keeps every hypothesis of a small space consistent so far

Hypotheses are disjunctions of conjunctions of attribute literals such as
[{Pizza=Yes} OR {Soda!=No}]. Learning is exact and deterministic: the same
examples in the same order always give the same result.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		runLogger = newLogger(os.Stderr, logLevel(), logFormatValue())
		slog.SetDefault(runLogger)
		if noColor {
			color.NoColor = true
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		if err := metrics.WriteTextfile(metricsFile, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote metrics: %s\n", metricsFile)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "induct %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.induct/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("metrics.file", rootCmd.PersistentFlags().Lookup("metrics-file"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".induct"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// INDUCT_SPACE_MAX_VALUES -> space.max_values
	viper.SetEnvPrefix("INDUCT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.api_key", "INDUCT_LLM_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.base_url", "INDUCT_LLM_BASE_URL", "OLLAMA_BASE_URL")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can see it on Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("space.policy", cfg.Space.Policy)
	v.SetDefault("space.max_attributes", cfg.Space.MaxAttributes)
	v.SetDefault("space.max_values", cfg.Space.MaxValues)
	v.SetDefault("space.max_conjunctions", cfg.Space.MaxConjunctions)
	v.SetDefault("space.max_hypotheses", cfg.Space.MaxHypotheses)
	v.SetDefault("space.cache_ttl", cfg.Space.CacheTTL)

	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("concurrency.jobs_per_second", cfg.Concurrency.JobsPerSecond)
	v.SetDefault("concurrency.burst", cfg.Concurrency.Burst)
	v.SetDefault("concurrency.version_space_jobs_per_second", cfg.Concurrency.VersionSpaceJobsPerSecond)

	v.SetDefault("output.verbose", cfg.Output.Verbose)
	v.SetDefault("output.include_trace", cfg.Output.IncludeTrace)
	v.SetDefault("output.max_listed", cfg.Output.MaxListed)
	v.SetDefault("output.color", cfg.Output.Color)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.progress_interval", cfg.Logging.ProgressInterval)

	v.SetDefault("metrics.file", cfg.Metrics.File)

	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.strict_vocabulary", cfg.LLM.StrictVocabulary)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", cfg.LLM.NoProxy)
}

// loadConfig merges defaults, config file, env and bound flags, then validates
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if noColor {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logLevel() slog.Level {
	if verbose || viper.GetBool("output.verbose") {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("logging.level"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func logFormatValue() string {
	if logFormat != "" {
		return logFormat
	}
	return viper.GetString("logging.format")
}

// status prints a ✓/✗/⚠ progress line to stderr
func status(symbol string, attr color.Attribute, format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.New(attr).Sprint(symbol), fmt.Sprintf(format, a...))
}
