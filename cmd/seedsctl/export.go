package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Seeds/internal/export"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

func newExportCmd() *cobra.Command {
	var db databaseFlags
	var outPath string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write all boards and ranked seeds as JSONL",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := db.load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, err := store.NewPostgresStore(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer s.Close()

			w := bufio.NewWriter(cmd.OutOrStdout())
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = bufio.NewWriter(f)
			}

			counts, err := export.ExportJSONL(ctx, s, scoring.NewEngine(cfg.Scoring.RatingScale), w)
			if err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d boards, %d seeds\n", counts.Boards, counts.Seeds)
			return nil
		},
	}
	db.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")
	return cmd
}
