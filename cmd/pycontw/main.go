package main

import (
	"fmt"
	"os"

	"github.com/scc-tw/pycontw2025/internal/logging"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
