package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/crlset-mirror/internal/service/mirror"
)

// newListCommand prints installed versions, oldest first.
func newListCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed CRL set versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}

			versions, err := mirror.List(cmd.Context(), opts)
			if err != nil {
				return err
			}

			for _, v := range versions {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
			}

			return nil
		},
	}
}
