package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill [path]",
	Short: "Kill the tmux session of a project",
	Long:  `Kills the session the project at path (default: the current directory) resolves to.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			path, err = absPath(path)
			if err != nil {
				return err
			}
			name, err = newResolver(engine).Name(path)
			if err != nil {
				return fmt.Errorf("name: %w", err)
			}
		}

		mux := newMultiplexer()
		exists, err := mux.HasSession(name)
		if err != nil {
			return fmt.Errorf("probe: %w", err)
		}
		if !exists {
			return fmt.Errorf("session %q not found", name)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Kill session %q? [y/N] ", name)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := mux.KillSession(name); err != nil {
			return fmt.Errorf("failed to kill session: %w", err)
		}

		fmt.Printf("Killed session %q\n", name)
		return nil
	},
}

func init() {
	killCmd.Flags().StringP("name", "n", "", "Session name to kill instead of resolving one")
	killCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(killCmd)
}
