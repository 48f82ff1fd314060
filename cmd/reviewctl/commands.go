package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"property_reviews/internal/adapters/hostaway"
	"property_reviews/internal/app"
	"property_reviews/internal/domain"
	"property_reviews/internal/shared"
	"property_reviews/internal/storage"
)

// env carries the loaded configuration and open store between subcommands.
type env struct {
	cfg     shared.Config
	store   domain.ApprovalStore
	closeFn func() error
	svc     app.Services
}

func rootCommand() *cobra.Command {
	e := &env{}
	var backend string

	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Inspect normalized property reviews and manage approvals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				With().Timestamp().Logger()
			e.cfg = shared.Load()
			if backend != "" {
				e.cfg.ApprovalBackend = backend
			}
			st, closeFn, err := storage.Open(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			e.store, e.closeFn = st, closeFn
			e.svc = app.NewServices(e.cfg, st)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.closeFn != nil {
				return e.closeFn()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&backend, "backend", "", "approval store backend (memory|file|redis|mysql)")

	root.AddCommand(normalizeCommand(e), approvalsCommand(e), placesCommand(e))
	return root
}

func normalizeCommand(e *env) *cobra.Command {
	var file string
	var raw bool
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print property reviews normalized and overlaid with approvals",
		Long: `Print property reviews normalized and overlaid with approvals.

Without --file the same source as the API is used: the live Hostaway API when
credentials are configured, the bundled fixture otherwise.

Examples:
  reviewctl normalize
  reviewctl normalize --file exports/reviews.json --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if file == "" && !raw {
				out, err := e.svc.Queries.PropertyReviews(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"status":      "success",
					"mode":        out.Mode,
					"endpoint":    out.Endpoint,
					"listings":    out.Listings,
					"meta":        out.Meta,
					"persistence": out.Persistence,
				})
			}

			batch, err := loadBatch(ctx, file)
			if err != nil {
				return err
			}
			n, err := app.Normalize(batch.Reviews)
			if err != nil {
				return err
			}
			if raw {
				return printJSON(cmd.OutOrStdout(), n)
			}
			snap, err := e.store.Load(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"listings": app.Overlay(n, snap), "meta": n.Meta})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read source reviews from a JSON array file")
	cmd.Flags().BoolVar(&raw, "raw", false, "print normalizer output without the approval overlay")
	return cmd
}

func loadBatch(ctx context.Context, file string) (domain.SourceBatch, error) {
	if file == "" {
		return hostaway.NewFixture().Fetch(ctx)
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return domain.SourceBatch{}, fmt.Errorf("read %s: %w", file, err)
	}
	return hostaway.NewFixtureFromBytes(b).Fetch(ctx)
}

func approvalsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "List or change approved review ids",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print approved review ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, err := e.store.Load(cmd.Context())
				if err != nil {
					return err
				}
				return printApprovals(cmd.OutOrStdout(), snap, e.store.Kind())
			},
		},
		&cobra.Command{
			Use:   "approve ID",
			Short: "Mark a review approved",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, err := e.svc.Approvals.Approve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printApprovals(cmd.OutOrStdout(), snap, e.store.Kind())
			},
		},
		&cobra.Command{
			Use:   "unapprove ID",
			Short: "Clear a review's approval",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, err := e.svc.Approvals.Unapprove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printApprovals(cmd.OutOrStdout(), snap, e.store.Kind())
			},
		},
	)
	return cmd
}

func placesCommand(e *env) *cobra.Command {
	var placeID string
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Fetch live rating and reviews for a place",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.svc.Places.Fetch(cmd.Context(), placeID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&placeID, "place-id", "", "place id (random sample place when empty)")
	return cmd
}

func printApprovals(w io.Writer, snap domain.ApprovalSnapshot, kind string) error {
	return printJSON(w, map[string]any{
		"approvedReviewIds": snap.Clone().ApprovedReviewIDs,
		"persistence":       kind,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
