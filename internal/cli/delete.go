package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bow/pkg/bow"
	"github.com/mesh-intelligence/bow/pkg/doctree"
)

func newDeleteCmd() *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "delete <file> <path>...",
		Short: "Remove map keys or list items by path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args, inPlace)
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write the result back to the file")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string, inPlace bool) error {
	file := args[0]
	if inPlace && file == stdinName {
		return errInPlaceStdin
	}

	doc, err := readDocument(cmd, file)
	if err != nil {
		return err
	}

	root := bow.Borrowed(&doc)
	for _, arg := range args[1:] {
		p, err := doctree.ParsePath(arg)
		if err != nil {
			return err
		}
		if err := doctree.Delete(&root, p); err != nil {
			return fmt.Errorf("delete %s: %w", p, err)
		}
	}
	logSharing(root, len(args)-1)

	return writeDocument(cmd, root.Value(), file, inPlace)
}
