package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

func newWeightsCmd(out func(*cobra.Command) output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "weights",
		Short:   "Inspect and adjust board weights offline",
		GroupID: "scoring",
	}
	cmd.AddCommand(newWeightsSetCmd(out))
	return cmd
}

func newWeightsSetCmd(out func(*cobra.Command) output) *cobra.Command {
	var current, dimension string
	var value float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Apply a weight change with capping and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weights := scoring.DefaultWeights()
			if current != "" {
				w, err := parseWeights(current)
				if err != nil {
					return err
				}
				weights = w
			}

			next, err := weights.SetWeightByKey(dimension, value)
			if err != nil {
				return err
			}

			o := out(cmd)
			if o.json {
				return o.printJSON(map[string]interface{}{
					"previous": weights,
					"weights":  next,
					"total":    next.Sum(),
				})
			}

			tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DIMENSION\tBEFORE\tAFTER")
			for _, d := range scoring.Dimensions() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", d.Key(), weights.Get(d), next.Get(d))
			}
			fmt.Fprintf(tw, "total\t%d\t%d\n", weights.Sum(), next.Sum())
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&current, "weights", "", "current weights as 7 comma-separated integers (default 15,15,14,14,14,14,14)")
	cmd.Flags().StringVar(&dimension, "dimension", "", "dimension key or index 0-6")
	cmd.Flags().Float64Var(&value, "value", 0, "requested weight")
	_ = cmd.MarkFlagRequired("dimension")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// parseWeights reads "15,15,14,14,14,14,14" into a WeightConfig.
func parseWeights(s string) (scoring.WeightConfig, error) {
	var w scoring.WeightConfig
	parts := strings.Split(s, ",")
	if len(parts) != scoring.NumDimensions {
		return w, fmt.Errorf("%w: expected %d weights, got %d", scoring.ErrInvalidArgument, scoring.NumDimensions, len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return w, fmt.Errorf("%w: weight %d: %v", scoring.ErrInvalidArgument, i, err)
		}
		w[i] = n
	}
	return w, nil
}
