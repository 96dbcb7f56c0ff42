package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/research-library/internal/library"
)

func uploadCmd(c *cli) *cobra.Command {
	var (
		title       string
		description string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "upload <file|glob>...",
		Short: "Upload PDF files",
		Long: `Upload one or more PDF files. Arguments may be glob patterns,
including ** for recursive matches. Each file is checked locally before it
is sent; files that are not PDFs are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			if title != "" && len(paths) > 1 {
				return fmt.Errorf("--title applies to a single file, got %d", len(paths))
			}

			files, err := readFiles(ctx, paths)
			if err != nil {
				return err
			}

			v, err := c.view(library.Options{})
			if err != nil {
				return err
			}
			defer v.Close()

			failed := 0
			for _, f := range files {
				if err := uploadOne(ctx, v, f, title, description, tags); err != nil {
					failed++
				}
				c.notify(v)
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title (defaults to the file name without extension)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func uploadOne(ctx context.Context, v *library.View, f library.FileSelection, title, description, tags string) error {
	if err := v.SelectFile(f); err != nil {
		return err
	}

	draft := library.Draft{
		Title:       library.TitleFromFilename(f.Name),
		Description: description,
		TagsRaw:     tags,
	}
	if title != "" {
		draft.Title = title
	}

	if err := v.UpdateDraft(draft); err != nil {
		v.CancelDraft()
		return err
	}
	if err := v.CommitDraft(ctx); err != nil {
		v.CancelDraft()
		return err
	}
	return nil
}

// expandPaths resolves glob arguments. Arguments without glob syntax are kept
// as-is so a missing file is reported by name.
func expandPaths(args []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string

	for _, arg := range args {
		matches := []string{arg}
		if hasMeta(arg) {
			m, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", arg, err)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("pattern %q matched no files", arg)
			}
			sort.Strings(m)
			matches = m
		}

		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}

	return paths, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// readFiles loads every path concurrently, preserving argument order.
func readFiles(ctx context.Context, paths []string) ([]library.FileSelection, error) {
	files := make([]library.FileSelection, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			files[i] = library.FileSelection{Name: filepath.Base(p), Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
