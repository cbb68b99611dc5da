package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ampyfin/vald/internal/pipeline"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one valuation run and print the results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		result, err := app.pipeline.RunOnce(cmd.Context())
		if err != nil {
			return err
		}

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		pipeline.WriteSummary(os.Stdout, result)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit the full run as JSON instead of a table")
}
