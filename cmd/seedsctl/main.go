package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var jsonOutput bool

	root := &cobra.Command{
		Use:           "seedsctl <command>",
		Short:         "Offline ranking, weight and maintenance tools for Seeds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "scoring", Title: "Scoring:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	out := func(cmd *cobra.Command) output {
		return output{w: cmd.OutOrStdout(), json: jsonOutput}
	}

	root.AddCommand(newRankCmd(out))
	root.AddCommand(newWeightsCmd(out))
	root.AddCommand(newROICmd(out))
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newExportCmd())
	return root
}

// output writes either a human rendering or JSON.
type output struct {
	w    io.Writer
	json bool
}

func (o output) printJSON(v interface{}) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
