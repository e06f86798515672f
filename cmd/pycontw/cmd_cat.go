package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scc-tw/pycontw2025/internal/gateway"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print the content of one resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func runCat(cmd *cobra.Command, args []string) error {
	gw := newGateway(cmd)

	text, err := gw.FetchContent(cmd.Context(), args[0])
	if err != nil {
		// A transport failure on one file is recoverable: render it
		// inline the way the view layer would, without failing the
		// session.
		if se, ok := gateway.AsStatus(err); ok {
			fmt.Printf("could not load %s: %s\n", se.Path, se.Text)
			return nil
		}
		return err
	}

	fmt.Print(text)
	return nil
}
