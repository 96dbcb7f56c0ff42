package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/pkg/storage"
)

func downloadCmd(c *cli) *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a document's PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			cfg := c.cfg.Storage
			if dir != "" {
				cfg.BasePath = dir
			}

			store, err := storage.New(&cfg, c.logger)
			if err != nil {
				return err
			}

			dl, err := c.client.Download(ctx, args[0])
			if err != nil {
				return err
			}
			defer dl.Body.Close()

			exists, err := store.Validate(ctx, dl.Filename)
			if err != nil {
				return err
			}
			if exists && !force {
				path, _ := store.Path(ctx, dl.Filename)
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}

			n, err := store.Store(ctx, dl.Filename, dl.Body)
			if err != nil {
				return err
			}

			path, err := store.Path(ctx, dl.Filename)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s (%s)\n", path, units.HumanSize(float64(n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", "", "Directory to save into (defaults to storage.base_path)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	return cmd
}
