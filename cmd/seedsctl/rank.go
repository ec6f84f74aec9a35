package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// rankInput is the document read by "seedsctl rank".
type rankInput struct {
	Weights *scoring.WeightConfig `json:"weights"`
	Scale   *scoring.RatingScale  `json:"rating_scale,omitempty"`
	Seeds   []*store.Seed         `json:"seeds"`
}

type rankRow struct {
	Rank  int      `json:"rank"`
	Title string   `json:"title"`
	Score float64  `json:"score"`
	ROI   *float64 `json:"roi,omitempty"`
}

func newRankCmd(out func(*cobra.Command) output) *cobra.Command {
	var file, sortKey, order, locale, xlsxPath string

	cmd := &cobra.Command{
		Use:     "rank",
		Short:   "Rank the seeds in a JSON file",
		GroupID: "scoring",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := scoring.ParseStrategy(sortKey)
			if err != nil {
				return err
			}
			dir, err := scoring.ParseDirection(order)
			if err != nil {
				return err
			}
			tag, err := language.Parse(locale)
			if err != nil {
				return fmt.Errorf("invalid locale %q: %w", locale, err)
			}

			in, err := readRankInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			weights := scoring.DefaultWeights()
			if in.Weights != nil {
				weights = *in.Weights
			}
			if err := weights.Validate(); err != nil {
				return err
			}
			scale := scoring.DefaultRatingScale()
			if in.Scale != nil {
				scale = *in.Scale
			}
			if err := scale.Validate(); err != nil {
				return err
			}
			engine := scoring.NewEngine(scale)

			for i, s := range in.Seeds {
				if s == nil {
					return fmt.Errorf("%w: seed %d is null", scoring.ErrInvalidArgument, i)
				}
				ratings, err := s.Ratings.Normalize()
				if err != nil {
					return fmt.Errorf("seed %q: %w", s.DisplayTitle(), err)
				}
				s.Ratings = ratings
			}

			ranked, err := scoring.Rank(strategy, dir, in.Seeds, scoring.RankOptions{
				Engine:  engine,
				Weights: weights,
				Locale:  tag,
			})
			if err != nil {
				return err
			}

			rows := make([]rankRow, len(ranked))
			for i, r := range ranked {
				rows[i] = rankRow{
					Rank:  i + 1,
					Title: r.Idea.DisplayTitle(),
					Score: r.Score,
					ROI:   engine.Explain(r.Idea, weights).ROI,
				}
			}

			if xlsxPath != "" {
				if err := writeRankXLSX(xlsxPath, rows); err != nil {
					return err
				}
			}

			o := out(cmd)
			if o.json {
				return o.printJSON(map[string]interface{}{
					"strategy": strategy,
					"order":    dir,
					"weights":  weights,
					"items":    rows,
					"summary":  scoring.Summarize(ranked),
				})
			}

			tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSCORE\tROI\tTITLE")
			for _, r := range rows {
				roi := "-"
				if r.ROI != nil {
					roi = fmt.Sprintf("%.1f%%", *r.ROI)
				}
				fmt.Fprintf(tw, "%d\t%.0f\t%s\t%s\n", r.Rank, r.Score, roi, r.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with weights and seeds (- for stdin)")
	cmd.Flags().StringVar(&sortKey, "sort", string(scoring.StrategyMetric), "ranking strategy (name, metric)")
	cmd.Flags().StringVar(&order, "order", string(scoring.Descending), "sort order (asc, desc)")
	cmd.Flags().StringVar(&locale, "locale", "en", "collation locale for name sorting")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the ranking to this spreadsheet")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readRankInput(path string, stdin io.Reader) (*rankInput, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var in rankInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &in, nil
}
