package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bow/pkg/doctree"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the node at a path",
		Long: `Get prints the node at a dotted path. Use "." for the whole document and
"-" as the file to read standard input.

Example:
  bowdoc get deploy.yaml server.ports.0.name`,
		Args: cobra.ExactArgs(2),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p, err := doctree.ParsePath(args[1])
	if err != nil {
		return err
	}
	n, err := doctree.Get(doc, p)
	if err != nil {
		return fmt.Errorf("get %s: %w", p, err)
	}
	return writeDocument(cmd, n, args[0], false)
}
