// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kelindar/tileset"
	"github.com/kelindar/tileset/store"
	"github.com/spf13/cobra"
)

const Version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed
type app struct {
	configPath string
	config     Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "tileset",
		Short:         "Inspect and play animated tile catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}

			a.config = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: cfg.Level()}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the TOML config file")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(a.inspectCmd())
	rootCmd.AddCommand(a.resolveCmd())
	rootCmd.AddCommand(a.playCmd())
	rootCmd.AddCommand(a.importCmd())
	return rootCmd
}

// options returns the catalog options derived from the config
func (a *app) options() []tileset.Option {
	opts := []tileset.Option{
		tileset.WithLogger(a.logger),
		tileset.WithPlaceholder(tileset.Image{Source: a.config.Placeholder}),
	}
	if a.config.Strict {
		opts = append(opts, tileset.WithStrictChains())
	}
	return opts
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the tiles and animations of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := tileset.Load(args[0], a.options()...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			size := catalog.TileSize()
			fmt.Fprintf(out, "%s: %d tiles of %dx%d\n", catalog.Name(), catalog.Len(), size.X, size.Y)
			for anim := range catalog.Animations() {
				status := "ok"
				if err := anim.Err(); err != nil {
					status = err.Error()
				}
				fmt.Fprintf(out, "  tile %d: %d frames, cycle %v (%s)\n",
					anim.Anchor(), anim.Len(), anim.Cycle(), status)
			}
			return nil
		},
	}
}

func (a *app) resolveCmd() *cobra.Command {
	var at time.Duration
	cmd := &cobra.Command{
		Use:   "resolve [file] [tile id]",
		Short: "Print the image visible for a tile at a given time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := tileset.Load(args[0], a.options()...)
			if err != nil {
				return err
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			img, err := catalog.Resolve(id, at)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if anim, ok := catalog.Animation(id); ok && anim.Err() == nil {
				fmt.Fprintf(out, "frame %d of %d\n", anim.FrameAt(at), anim.Len())
			}
			printImage(out, img)
			return nil
		},
	}

	cmd.Flags().DurationVar(&at, "at", 0, "Elapsed time to resolve at")
	return cmd
}

func (a *app) playCmd() *cobra.Command {
	var length time.Duration
	var session string
	var realtime bool
	cmd := &cobra.Command{
		Use:   "play [file] [tile id]",
		Short: "Simulate the clock and print every frame change of a tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := tileset.Load(args[0], a.options()...)
			if err != nil {
				return err
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			tick, err := a.config.TickInterval()
			if err != nil {
				return err
			}

			clock := tileset.NewClock()
			var db *store.Store
			if session != "" {
				if db, err = store.Open(a.config.Store); err != nil {
					return err
				}
				defer db.Close()

				switch err := db.RestoreClock(session, clock); {
				case errors.Is(err, store.ErrNotFound):
					a.logger.Info("starting new session", slog.String("session", session))
				case err != nil:
					return err
				}
			}

			out := cmd.OutOrStdout()
			lookup := tileset.NewLookup(catalog, clock, a.options()...)
			last := tileset.Image{}
			show := func(view tileset.View) {
				if img := view.Image(id); img != last {
					fmt.Fprintf(out, "%10v  ", view.Elapsed())
					printImage(out, img)
					last = img
				}
			}

			switch {
			case realtime:
				ctx, cancel := context.WithTimeout(cmd.Context(), length)
				defer cancel()

				show(lookup.View())
				err := clock.Run(ctx, tick, func(elapsed time.Duration) {
					show(lookup.At(elapsed))
				})
				if err != nil && ctx.Err() == nil {
					return err
				}

			default:
				for end := clock.Elapsed() + length; clock.Elapsed() <= end; {
					show(lookup.View())
					if err := clock.Advance(tick); err != nil {
						return err
					}
				}
			}

			if db != nil {
				return db.SaveClock(session, clock)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&length, "for", 2*time.Second, "How long to simulate")
	cmd.Flags().StringVar(&session, "session", "", "Restore and save the clock under this session name")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Drive the clock from the wall clock instead of simulating ticks")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file] [name]",
		Short: "Validate a catalog and save it into the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := tileset.LoadSource(args[0])
			if err != nil {
				return err
			}

			if _, err := tileset.Build(src, a.options()...); err != nil {
				return err
			}

			db, err := store.Open(a.config.Store)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.PutSource(args[1], src); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tiles as '%s'\n", len(src.Tiles), args[1])
			return nil
		},
	}
}

// parseID parses a tile id argument
func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tile id '%s': %w", s, err)
	}
	return uint32(id), nil
}

func printImage(w io.Writer, img tileset.Image) {
	r := img.Region
	fmt.Fprintf(w, "%s [%d,%d %dx%d]\n", img.Source, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}
