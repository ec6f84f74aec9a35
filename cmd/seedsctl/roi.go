package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

func newROICmd(out func(*cobra.Command) output) *cobra.Command {
	var gained, spent float64

	cmd := &cobra.Command{
		Use:     "roi",
		Short:   "Compute return on investment as a percentage",
		GroupID: "scoring",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roi, err := scoring.CalculateROI(gained, spent)
			if err != nil {
				return err
			}
			o := out(cmd)
			if o.json {
				return o.printJSON(map[string]float64{
					"amount_gained": gained,
					"amount_spent":  spent,
					"roi":           roi,
				})
			}
			_, err = fmt.Fprintf(o.w, "ROI: %.2f%%\n", roi)
			return err
		},
	}

	cmd.Flags().Float64Var(&gained, "gained", 0, "amount gained")
	cmd.Flags().Float64Var(&spent, "spent", 0, "amount spent")
	_ = cmd.MarkFlagRequired("gained")
	_ = cmd.MarkFlagRequired("spent")
	return cmd
}
