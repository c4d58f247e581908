package cli

import (
	"time"

	"github.com/spf13/cobra"

	"nodeboard/internal/cache"
	"nodeboard/internal/logger"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Inspect and rename nodes",
	}
	cmd.AddCommand(newNodesListCmd(app))
	cmd.AddCommand(newNodesRenameCmd(app))
	return cmd
}

func newNodesListCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every node with its widget count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				return listCachedNodes(cmd, app)
			}
			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodes, err := client.ListNodes(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, nodes)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "List locally cached snapshots instead of asking the server")

	return cmd
}

// listCachedNodes reads the snapshot store directly, so it works offline.
func listCachedNodes(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	store := cache.Store{Path: cfg.Cache.Path}
	snaps, err := store.ListSnapshots(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	rows := make([]map[string]any, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, map[string]any{
			"id":      snap.Node.ID,
			"name":    snap.Node.Name,
			"widgets": snap.Node.Layout.Count(),
			"savedAt": snap.SavedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeOut(cmd, app, rows)
}

func newNodesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <node-id> <name>",
		Short: "Rename a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.RenameNode(cmd.Context(), args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{"id": args[0], "name": args[1]})
		},
	}
}
