package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scc-tw/pycontw2025/internal/gateway"
	"github.com/scc-tw/pycontw2025/internal/models"
	"github.com/scc-tw/pycontw2025/internal/nav"
	"github.com/scc-tw/pycontw2025/internal/tree"
)

var browseCmd = &cobra.Command{
	Use:   "browse [basePath]",
	Short: "Interactively navigate the virtual resource tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	basePath := cfg.BasePath
	if len(args) == 1 {
		basePath = args[0]
	}

	gw := newGateway(cmd)
	session := nav.NewSession(lastLabel(basePath))
	defer session.Reset()

	nodes := gw.FetchTree(cmd.Context(), basePath)
	fmt.Printf("%d entries loaded. Type 'help' for commands.\n", tree.CountNodes(nodes))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", crumbLine(session))
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command, arg := fields[0], strings.Join(fields[1:], " ")

		switch command {
		case "ls":
			for _, child := range currentChildren(session, nodes) {
				name := child.Name
				if child.IsDir {
					name += "/"
					if session.IsExpanded(child.Path) {
						name += " (expanded)"
					}
				}
				fmt.Println(" ", name)
			}
		case "cd":
			child := childByName(currentChildren(session, nodes), arg)
			if child == nil || !child.IsDir {
				fmt.Println("no such directory:", arg)
				continue
			}
			session.SelectNode(child)
		case "open":
			node := tree.FindByPath(nodes, arg)
			if node == nil {
				node = childByName(currentChildren(session, nodes), arg)
			}
			if node == nil || node.IsDir {
				fmt.Println("no such file:", arg)
				continue
			}
			session.SelectNode(node)
			text, err := gw.FetchContent(cmd.Context(), node.Path)
			if err != nil {
				if se, ok := gateway.AsStatus(err); ok {
					fmt.Printf("could not load %s: %s\n", se.Path, se.Text)
					continue
				}
				return err
			}
			fmt.Print(text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Println()
			}
		case "toggle":
			session.ToggleFolder(arg)
		case "back":
			if !session.GoBack() {
				fmt.Println("history is empty")
			}
		case "crumbs":
			for _, c := range session.Breadcrumbs() {
				fmt.Printf("  %s -> %q\n", c.Label, c.Path)
			}
		case "url":
			fmt.Println(gw.DownloadURL(arg))
		case "refresh":
			gw.Reset()
			nodes = gw.FetchTree(cmd.Context(), basePath)
			fmt.Printf("%d entries loaded.\n", tree.CountNodes(nodes))
		case "help":
			fmt.Println("commands: ls, cd <dir>, open <file>, toggle <path>, back, crumbs, url <path>, refresh, quit")
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Println("unknown command:", command)
		}
	}
}

// currentChildren resolves the children of the session's current location
// in the fetched tree. At the root the top-level nodes themselves are the
// children.
func currentChildren(session *nav.Session, nodes []*models.FileNode) []*models.FileNode {
	segments := session.CurrentPath()
	if len(segments) == 0 {
		return nodes
	}
	node := tree.FindByPath(nodes, strings.Join(segments, "/"))
	if node == nil {
		return nil
	}
	return node.Children
}

func childByName(children []*models.FileNode, name string) *models.FileNode {
	for _, c := range children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func crumbLine(session *nav.Session) string {
	var labels []string
	for _, c := range session.Breadcrumbs() {
		labels = append(labels, c.Label)
	}
	return strings.Join(labels, "/")
}

func lastLabel(basePath string) string {
	basePath = strings.Trim(basePath, "/")
	if i := strings.LastIndexByte(basePath, '/'); i >= 0 {
		return basePath[i+1:]
	}
	return basePath
}
