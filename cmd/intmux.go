package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simon/tctrl/internal/tmux"
)

var inTmuxCmd = &cobra.Command{
	Use:         "in-tmux",
	Short:       "Print true or false depending on whether this runs inside tmux",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSettings: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), tmux.InsideClient())
	},
}

func init() {
	rootCmd.AddCommand(inTmuxCmd)
}
