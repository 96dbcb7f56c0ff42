package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/config"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/pkg/logging"
)

// cli carries the state built once per invocation.
type cli struct {
	configPath string
	backendURL string

	cfg    *config.Config
	logger *slog.Logger
	client *backend.Client
	store  *library.Store
	out    io.Writer
	errOut io.Writer
}

func rootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the research PDF library",
		Long: `Manage the PDF library of a research backend.

Examples:
  library list --tag research
  library upload papers/**/*.pdf --tags "research, 2024"
  library edit 3f2a --title "Final thesis"
  library delete 3f2a
  library query "What methods were compared?" --pdf 3f2a --pdf 91bc
  library drafts save 7c1e --title "Survey notes" --tags "ai, survey"
  library playlists create "Reading list" --draft 5d0a --draft 8e4b
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", config.BaseConfigFile, "Configuration file")
	cmd.PersistentFlags().StringVar(&c.backendURL, "backend", "", "Backend base URL (overrides configuration)")

	cmd.AddCommand(
		listCmd(c),
		showCmd(c),
		uploadCmd(c),
		editCmd(c),
		deleteCmd(c),
		urlCmd(c),
		downloadCmd(c),
		queryCmd(c),
		researchCmd(c),
		draftsCmd(c),
		playlistsCmd(c),
		tagsCmd(c),
		versionCmd(c),
	)

	return cmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(c.configPath, config.LogToStderr)
	if err != nil {
		return err
	}

	if c.backendURL != "" {
		if err := cfg.Backend.Override(c.backendURL); err != nil {
			return fmt.Errorf("backend: %w", err)
		}
	}

	c.cfg = cfg
	c.out = cmd.OutOrStdout()
	c.errOut = cmd.ErrOrStderr()
	c.logger = logging.NewWithStreams(&cfg.Logging, c.out, c.errOut)
	c.client = backend.New(&cfg.Backend, c.logger, nil)
	c.store = library.NewStore(c.client, c.logger, nil)
	return nil
}

// view opens a library view over the shared store. Callers must Close it.
func (c *cli) view(opts library.Options) (*library.View, error) {
	if opts.MaxUploadSize == 0 {
		opts.MaxUploadSize = c.cfg.Upload.MaxUploadSizeBytes()
	}
	if opts.DescriptionWidth == 0 {
		opts.DescriptionWidth = c.cfg.View.DescriptionWidth
	}
	return library.NewView(c.store, c.client, opts, c.logger)
}

// notify prints the view's queued notices to stderr.
func (c *cli) notify(v *library.View) library.LibraryModel {
	m := v.Model()
	for _, n := range m.Notices {
		fmt.Fprintf(c.errOut, "%s: %s\n", n.Level, n.Message)
	}
	return m
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
