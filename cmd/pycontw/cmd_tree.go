package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scc-tw/pycontw2025/internal/models"
)

var treeCmd = &cobra.Command{
	Use:   "tree [basePath]",
	Short: "Print the virtual resource tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().Bool("lang", false, "annotate files with their semantic language")
}

func runTree(cmd *cobra.Command, args []string) error {
	basePath := cfg.BasePath
	if len(args) == 1 {
		basePath = args[0]
	}
	showLang, _ := cmd.Flags().GetBool("lang")

	gw := newGateway(cmd)
	nodes := gw.FetchTree(cmd.Context(), basePath)
	if len(nodes) == 0 {
		fmt.Println("(empty workspace)")
		return nil
	}

	for _, n := range nodes {
		printNode(n, "", showLang)
	}
	return nil
}

func printNode(n *models.FileNode, indent string, showLang bool) {
	label := n.Name
	if n.IsDir {
		label += "/"
	} else if showLang && n.Language != "" {
		label += "  [" + n.Language + "]"
	}
	fmt.Println(indent + label)
	for _, child := range n.Children {
		printNode(child, indent+"  ", showLang)
	}
}
