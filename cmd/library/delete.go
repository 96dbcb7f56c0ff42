package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/library"
)

func deleteCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			v, err := c.view(library.Options{})
			if err != nil {
				return err
			}
			defer v.Close()

			if err := v.Load(ctx); err != nil {
				c.notify(v)
				return err
			}

			if err := v.RequestDelete(args[0]); err != nil {
				c.notify(v)
				return err
			}

			if !yes {
				pending := v.PendingDelete()
				if !c.confirm(cmd, fmt.Sprintf("Delete %q (%s)? This cannot be undone.", pending.Title, pending.ID)) {
					v.CancelDelete()
					return nil
				}
			}

			err = v.ConfirmDelete(ctx)
			c.notify(v)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
