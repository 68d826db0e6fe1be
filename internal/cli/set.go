package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bow/pkg/bow"
	"github.com/mesh-intelligence/bow/pkg/doctree"
)

var errBadAssignment = errors.New("expected PATH=VALUE")

func newSetCmd() *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "set <file> <path=value>...",
		Short: "Set scalar values by path",
		Long: `Set applies each PATH=VALUE assignment in order and prints the edited
document. Missing map keys are created; index len(list) appends. Values
are typed like plain YAML scalars, so 3 is an integer and true a boolean.

Example:
  bowdoc set deploy.yaml server.replicas=3 metadata.labels.tier=web`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args, inPlace)
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write the result back to the file")
	return cmd
}

func runSet(cmd *cobra.Command, args []string, inPlace bool) error {
	file := args[0]
	if inPlace && file == stdinName {
		return errInPlaceStdin
	}

	type assignment struct {
		path  doctree.Path
		value string
	}
	assignments := make([]assignment, 0, len(args)-1)
	for _, arg := range args[1:] {
		path, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w, got %q", errBadAssignment, arg)
		}
		p, err := doctree.ParsePath(path)
		if err != nil {
			return err
		}
		assignments = append(assignments, assignment{path: p, value: value})
	}

	doc, err := readDocument(cmd, file)
	if err != nil {
		return err
	}

	root := bow.Borrowed(&doc)
	for _, a := range assignments {
		if err := doctree.Edit(&root, a.path, a.value); err != nil {
			return fmt.Errorf("set %s: %w", a.path, err)
		}
	}
	logSharing(root, len(assignments))

	return writeDocument(cmd, root.Value(), file, inPlace)
}
