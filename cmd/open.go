package cmd

import (
	"github.com/spf13/cobra"

	"github.com/simon/tctrl/internal/launch"
	"github.com/simon/tctrl/internal/logger"
	"github.com/simon/tctrl/internal/tmux"
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a project in its tmux session",
	Long: `Opens the project at path in a tmux session, creating the session from
the configured layout if it does not exist yet. Without a path, a picker
over list_projects() is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			path, err = pickProject(engine)
			if err != nil {
				return err
			}
		}
		path, err = absPath(path)
		if err != nil {
			return err
		}

		client, _ := cmd.Flags().GetString("client")
		name, _ := cmd.Flags().GetString("name")

		l := &launch.Launcher{
			Mux:          newMultiplexer(),
			Resolver:     newResolver(engine),
			InsideClient: tmux.InsideClient(),
			Log:          logger.WithComponent("launch"),
		}
		if store := openHistory(); store != nil {
			defer store.Close()
			l.History = store
		}

		_, err = l.Open(launch.Request{Path: path, Client: client, Name: name})
		return err
	},
}

func init() {
	openCmd.Flags().StringP("client", "t", "", "The tmux client to open the project in")
	openCmd.Flags().StringP("name", "n", "", "Session name to use instead of resolving one")
	rootCmd.AddCommand(openCmd)
}
