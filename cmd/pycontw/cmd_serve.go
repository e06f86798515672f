package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scc-tw/pycontw2025/internal/logging"
	"github.com/scc-tw/pycontw2025/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a local directory as the resource origin",
	Long: `serve publishes a directory as the manifest plus raw content
endpoints the browser consumes. Changes under the directory are watched
and the manifest is rebuilt automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides config)")
	serveCmd.Flags().Bool("watch", true, "watch the directory for changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	root := cfg.ServeRoot
	if len(args) == 1 {
		root = args[0]
	}
	addr := cfg.ListenAddr
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		addr = v
	}
	watch, _ := cmd.Flags().GetBool("watch")

	srv := server.New(root)
	if err := srv.Init(cmd.Context()); err != nil {
		return err
	}

	if watch {
		w, err := server.NewWatcher(root, 0)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Start(cmd.Context(), srv.Rescan); err != nil {
			return err
		}
		srv.SetWatcher(w)
		logging.Info("watching resource root", zap.String("root", root))
	}

	logging.Info("resource origin listening",
		zap.String("addr", addr),
		zap.String("root", root))
	return http.ListenAndServe(addr, srv.Handler())
}
