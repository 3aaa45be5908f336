package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonhe/vigil/tui/styles"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available color themes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, slug := range styles.ListThemes() {
			fmt.Println(slug)
		}
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
