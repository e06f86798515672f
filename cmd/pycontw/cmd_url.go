package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url <path>",
	Short: "Print the download URL for one resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := newGateway(cmd)
		fmt.Println(gw.DownloadURL(args[0]))
		return nil
	},
}
