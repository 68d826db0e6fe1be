package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bow/pkg/bow"
	"github.com/mesh-intelligence/bow/pkg/doctree"
)

// stdinName selects standard input as the document source.
const stdinName = "-"

var errInPlaceStdin = errors.New("--in-place cannot be used with standard input")

// readDocument parses the document named by file.
func readDocument(cmd *cobra.Command, file string) (doctree.Node, error) {
	var (
		data []byte
		err  error
	)
	if file == stdinName {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return doctree.Node{}, fmt.Errorf("read %s: %w", file, err)
	}
	return doctree.Parse(data)
}

// writeDocument renders n in the configured format, either to stdout or
// back to file when inPlace is set.
func writeDocument(cmd *cobra.Command, n doctree.Node, file string, inPlace bool) error {
	out, err := doctree.Encode(n, cfg.GetString(cfgKeyFormat))
	if err != nil {
		return err
	}
	if !inPlace {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return sysError{fmt.Errorf("stat %s: %w", file, err)}
	}
	if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
		return sysError{fmt.Errorf("write %s: %w", file, err)}
	}
	logger.Info("wrote document", "file", file, "bytes", len(out))
	return nil
}

// logSharing reports how much of the edited tree is still shared with the
// source document.
func logSharing(root bow.Bow[doctree.Node], edits int) {
	s := doctree.Count(root)
	logger.Debug("applied edits",
		"edits", edits,
		"nodes", s.Total(),
		"copied", s.Owned,
		"shared", s.Shared,
		"shared_subtrees", s.Borrowed,
	)
}
