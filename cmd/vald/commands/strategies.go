package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampyfin/vald/internal/strategies"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered valuation strategies",
	RunE: func(_ *cobra.Command, _ []string) error {
		reg := strategies.NewRegistry()

		enabled := make(map[string]bool)
		for _, name := range reg.Enabled() {
			enabled[name] = true
		}

		fmt.Printf("%-30s %-9s %s\n", "NAME", "ENABLED", "REQUIRED METRICS")
		for _, name := range reg.ListAll() {
			required, err := reg.RequiredMetrics(name)
			if err != nil {
				return err
			}
			state := "no"
			if enabled[name] {
				state = "yes"
			}
			fmt.Printf("%-30s %-9s %s\n", name, state, strings.Join(required, ", "))
		}
		return nil
	},
}
