// Package cli is the nodeboard command tree. The bare command starts the
// interactive board; subcommands expose the same node and layout operations
// headlessly for scripts.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nodeboard/internal/api"
	"nodeboard/internal/cache"
	"nodeboard/internal/config"
	"nodeboard/internal/format"
	"nodeboard/internal/logger"
	"nodeboard/internal/tui"
)

type App struct {
	ConfigPath string
	Node       string
	BaseURL    string
	Demo       bool
	Pretty     bool

	// Preset by tests and demo mode; otherwise built from config on first use.
	client api.Client
	cfg    *config.Config
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nodeboard",
		Short:        "Terminal dashboard for a personal node server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board on the last opened node
  nodeboard

  # Open a specific node
  nodeboard open 4ac3e7de-9d3c-4f0a-a279-1c4f9d6f2a11

  # Scriptable commands
  nodeboard nodes list
  nodeboard layout show

  # Try the board without a server
  nodeboard --demo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runBoard(app, app.Node)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("NODEBOARD_CONFIG", ""), "Directory holding config.yaml (default: cwd, then the user config dir)")
	cmd.PersistentFlags().StringVar(&app.Node, "node", "", "Node id to operate on (default: configured node, then the last opened one)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Node server base url (overrides the configured one)")
	cmd.PersistentFlags().BoolVar(&app.Demo, "demo", false, "Run against a built-in demo node instead of a server")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (app *App) loadConfig() (*config.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := config.LoadWithPath(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if app.BaseURL != "" {
		cfg.Server.BaseURL = app.BaseURL
	}
	app.cfg = cfg
	return cfg, nil
}

// newClient returns the API client for this invocation. Demo mode swaps in a
// seeded in-memory fake so every command works without a server.
func (app *App) newClient(log *zap.Logger) (api.Client, error) {
	if app.client != nil {
		return app.client, nil
	}
	if app.Demo {
		app.client = newDemoClient()
		return app.client, nil
	}
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := api.New(api.Config{
		BaseURL: cfg.Server.BaseURL,
		Session: cfg.Server.Session,
		CSRF:    cfg.Server.CSRFToken,
		Timeout: cfg.Server.TimeoutDuration(),
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	app.client = c
	return c, nil
}

// resolveNodeID picks the node a headless command targets: the --node flag,
// then the configured default, then the first node the server lists.
func (app *App) resolveNodeID(ctx context.Context, client api.Client) (string, error) {
	if app.Node != "" {
		return app.Node, nil
	}
	if !app.Demo {
		if cfg, err := app.loadConfig(); err == nil && cfg.Node != "" {
			return cfg.Node, nil
		}
	}
	nodes, err := client.ListNodes(ctx)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", fmt.Errorf("the server lists no nodes")
	}
	return nodes[0].ID, nil
}

func runBoard(app *App, nodeID string) error {
	var (
		cfg *config.Config
		err error
	)
	if !app.Demo {
		cfg, err = app.loadConfig()
		if err != nil {
			return err
		}
		log, lerr := logger.New(cfg.Log)
		if lerr == nil {
			logger.SetDefault(log)
		}
	}
	log := logger.Default()

	client, err := app.newClient(log)
	if err != nil {
		return err
	}

	var store *cache.Store
	if !app.Demo && cfg.Cache.Path != "" {
		store = &cache.Store{Path: cfg.Cache.Path}
	}
	if nodeID == "" && !app.Demo && cfg.Node != "" {
		nodeID = cfg.Node
	}

	m := tui.New(tui.Options{
		Client: client,
		Cache:  store,
		Logger: log,
		NodeID: nodeID,
	})
	return tui.Run(m)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteEnvelope(cmd.OutOrStdout(), v, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
