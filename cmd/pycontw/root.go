package main

import (
	"github.com/spf13/cobra"

	"github.com/scc-tw/pycontw2025/internal/cache"
	"github.com/scc-tw/pycontw2025/internal/config"
	"github.com/scc-tw/pycontw2025/internal/gateway"
	"github.com/scc-tw/pycontw2025/internal/logging"
	"github.com/scc-tw/pycontw2025/internal/models"
	"github.com/scc-tw/pycontw2025/internal/retry"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pycontw",
	Short: "Browse the PyCon TW 2025 conference resources",
	Long: `pycontw turns the flat resource manifest published by the serving
origin into a navigable virtual file tree, with cached content fetches and
traversal-safe paths.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		return logging.Init(logging.Config{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: pycontw.yaml in standard locations)")
	rootCmd.PersistentFlags().String("base-url", "", "serving origin (overrides config)")
	rootCmd.AddCommand(treeCmd, catCmd, urlCmd, browseCmd, serveCmd)
}

// newGateway builds a gateway from the loaded config, honoring the
// --base-url flag. Dependencies are constructed here, not pulled from any
// shared container.
func newGateway(cmd *cobra.Command) *gateway.Gateway {
	baseURL := cfg.BaseURL
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		baseURL = v
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	trees := cache.New[[]*models.FileNode](cfg.CacheTTL)
	content := cache.New[string](cfg.CacheTTL)
	return gateway.New(gateway.Config{
		BaseURL:     baseURL,
		Timeout:     cfg.HTTPTimeout,
		RetryConfig: retryCfg,
	}, trees, content)
}
