package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partboard/partboard/pkg/errors"
)

// newInitCmd creates the init command, which writes a starter board
// document to edit with `partboard board` or render with
// `partboard render`.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Create a sample board document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput,
					"%s already exists (use --force to overwrite)", path)
			}

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err := saveDocument(path, sampleDocument(name)); err != nil {
				return err
			}
			printSuccess("created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
