package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danapr/lumen/internal/config"
	"github.com/danapr/lumen/internal/logger"
	"github.com/danapr/lumen/pkg/agent"
	"github.com/danapr/lumen/pkg/checkpoint"
	"github.com/danapr/lumen/pkg/demotools"
	"github.com/danapr/lumen/pkg/tool"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Lumen - tool-calling agent sessions with thread-scoped memory",
	Long: `Lumen drives conversation turns against a chat-completion model,
letting the model call registered tools and optionally persisting the
conversation per thread so later turns see earlier ones.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lumen/lumen.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// runtime bundles the pieces every command assembles before invoking.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *tool.Registry
	provider agent.Provider
}

// setup loads configuration, installs the logger, registers the demo tools,
// and constructs the model provider.
func setup() (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	lg, err := logger.New(logger.Config{
		Level:     level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    true,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := tool.NewRegistry()
	if err := demotools.Register(registry); err != nil {
		return nil, err
	}

	provider, err := agent.NewProvider(cfg.Model.Provider, cfg.Model.APIKey, cfg.Model.BaseURL)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, log: lg, registry: registry, provider: provider}, nil
}

// newSaver builds the checkpoint store selected in the config.
func (r *runtime) newSaver() (checkpoint.Saver, func() error, error) {
	switch r.cfg.Memory.Backend {
	case "sqlite":
		saver, err := checkpoint.NewSQLiteSaver(r.cfg.Memory.Path)
		if err != nil {
			return nil, nil, err
		}
		return saver, saver.Close, nil
	default:
		return checkpoint.NewMemorySaver(), func() error { return nil }, nil
	}
}

// newAgent constructs an agent from the loaded configuration.
func (r *runtime) newAgent(systemPrompt string, tools []string, saver checkpoint.Saver, stateSchema string) (*agent.Agent, error) {
	return agent.New(agent.Config{
		Provider:     r.provider,
		Registry:     r.registry,
		Saver:        saver,
		Logger:       r.log.GetZerolog(),
		Model:        r.cfg.Model.Name,
		Temperature:  r.cfg.Model.Temperature,
		MaxTokens:    r.cfg.Model.MaxTokens,
		SystemPrompt: systemPrompt,
		Tools:        tools,
		MaxTurns:     r.cfg.Agent.MaxTurns,
		MaxRetries:   r.cfg.Agent.MaxRetries,
		StateSchema:  stateSchema,
	})
}
