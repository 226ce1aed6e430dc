package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simon/tctrl/internal/script"
)

var printDefaultConfigCmd = &cobra.Command{
	Use:         "print-default-config",
	Short:       "Print the built-in Lua configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSettings: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), script.Default())
	},
}

var listProjectsCmd = &cobra.Command{
	Use:   "list-projects",
	Short: "Print the paths returned by list_projects()",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		projects, err := engine.ListProjects()
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		for _, p := range projects {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printDefaultConfigCmd)
	rootCmd.AddCommand(listProjectsCmd)
}
