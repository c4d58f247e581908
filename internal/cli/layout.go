package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nodeboard/internal/layout"
	"nodeboard/internal/logger"
	"nodeboard/internal/model"
)

func newLayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and mutate a node's widget layout",
		Long:  "Inspect and mutate a node's widget layout. Columns and slots are zero-based, matching the wire format.",
	}
	cmd.AddCommand(newLayoutShowCmd(app))
	cmd.AddCommand(newLayoutMoveCmd(app))
	cmd.AddCommand(newLayoutAddCmd(app))
	cmd.AddCommand(newLayoutRemoveCmd(app))
	return cmd
}

// entryView is the scripting shape of one placed widget.
type entryView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title,omitempty"`
}

func layoutView(l model.Layout) [][]entryView {
	out := make([][]entryView, model.NumColumns)
	for ci, col := range l.Columns {
		views := make([]entryView, 0, len(col))
		for _, e := range col {
			views = append(views, entryView{ID: e.ID, Kind: string(e.Kind), Title: entryTitle(e)})
		}
		out[ci] = views
	}
	return out
}

func entryTitle(e model.Entry) string {
	switch {
	case e.Note != nil:
		return e.Note.Name
	case e.Image != nil:
		return e.Image.Title
	}
	return ""
}

func newLayoutShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [node-id]",
		Short: "Print a node's layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodeID := ""
			if len(args) == 1 {
				nodeID = args[0]
			} else if nodeID, err = app.resolveNodeID(cmd.Context(), client); err != nil {
				return writeErr(cmd, err)
			}
			node, err := client.GetNode(cmd.Context(), nodeID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"id":      node.ID,
				"name":    node.Name,
				"columns": layoutView(node.Layout),
			})
		},
	}
}

func newLayoutMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <entry-id> <col> <slot>",
		Short: "Move a widget to a column and slot",
		Long:  "Move a widget to a zero-based column and slot. The slot names a position on the board as currently displayed; a move onto the widget's own slot is a no-op and is not sent.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := strconv.Atoi(args[1])
			if err != nil || col < 0 || col >= model.NumColumns {
				return writeErr(cmd, fmt.Errorf("col must be 0..%d", model.NumColumns-1))
			}
			row, err := strconv.Atoi(args[2])
			if err != nil || row < 0 {
				return writeErr(cmd, fmt.Errorf("slot must be a non-negative number"))
			}

			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodeID, err := app.resolveNodeID(cmd.Context(), client)
			if err != nil {
				return writeErr(cmd, err)
			}
			node, err := client.GetNode(cmd.Context(), nodeID)
			if err != nil {
				return writeErr(cmd, err)
			}

			src, ok := layout.Find(node.Layout, args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("no widget %s on node %s", args[0], nodeID))
			}
			dst := layout.ClampSlot(node.Layout, layout.Position{Col: col, Row: row})
			next, changed := layout.Move(node.Layout, src, dst)
			if !changed {
				return writeOut(cmd, app, map[string]any{
					"changed": false,
					"columns": layoutView(node.Layout),
				})
			}
			saved, err := client.ChangeLayout(cmd.Context(), nodeID, next)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"changed": true,
				"columns": layoutView(saved),
			})
		},
	}
}

func newLayoutAddCmd(app *App) *cobra.Command {
	var (
		name      string
		title     string
		url       string
		ref       string
		rotation  int
		display   string
		format    string
		color     int
		randomize bool
		favorites bool
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a widget to the node",
		Long:  "Add a widget of the given kind (collection, note, todo, image, quote, subnode). The server picks the column and assigns the id. Reference kinds need --ref with the uuid of the collection, media, quote, or node they show.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := buildEntry(model.Kind(args[0]), entryFlags{
				name: name, title: title, url: url, ref: ref,
				rotation: rotation, display: display, format: format,
				color: color, randomize: randomize, favorites: favorites, limit: limit,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodeID, err := app.resolveNodeID(cmd.Context(), client)
			if err != nil {
				return writeErr(cmd, err)
			}
			saved, err := client.AddWidget(cmd.Context(), nodeID, entry)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"columns": layoutView(saved)})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Note name")
	cmd.Flags().StringVar(&title, "title", "", "Image title")
	cmd.Flags().StringVar(&url, "url", "", "Image link url")
	cmd.Flags().StringVar(&ref, "ref", "", "Referenced object uuid (collection, media, quote, node)")
	cmd.Flags().IntVar(&rotation, "rotation", int(model.RotationNever), "Rotation period in minutes (-1, 1, 5, 10, 30, 60, 1440)")
	cmd.Flags().StringVar(&display, "display", string(model.DisplayList), "Collection display (list|individual)")
	cmd.Flags().StringVar(&format, "format", string(model.FormatStandard), "Quote format (standard|minimal)")
	cmd.Flags().IntVar(&color, "color", 0, "Palette slot (0-3)")
	cmd.Flags().BoolVar(&randomize, "randomize", false, "Randomize individual collection display")
	cmd.Flags().BoolVar(&favorites, "favorites-only", false, "Rotate only favorite quotes")
	cmd.Flags().IntVar(&limit, "limit", 0, "Collection item limit (0 = all)")
	return cmd
}

type entryFlags struct {
	name      string
	title     string
	url       string
	ref       string
	rotation  int
	display   string
	format    string
	color     int
	randomize bool
	favorites bool
	limit     int
}

func buildEntry(kind model.Kind, f entryFlags) (model.Entry, error) {
	if !model.KnownKind(kind) {
		return model.Entry{}, fmt.Errorf("unknown widget kind %q", kind)
	}
	rot := model.Rotation(f.rotation)
	if !rot.Valid() {
		return model.Entry{}, fmt.Errorf("rotation %d is not a selectable period", f.rotation)
	}
	if f.color < 0 || f.color >= model.PaletteSlots {
		return model.Entry{}, fmt.Errorf("color must be 0..%d", model.PaletteSlots-1)
	}
	requireRef := func(what string) (string, error) {
		if _, err := uuid.Parse(f.ref); err != nil {
			return "", fmt.Errorf("--ref must carry the %s uuid", what)
		}
		return f.ref, nil
	}

	e := model.Entry{Kind: kind}
	switch kind {
	case model.KindCollection:
		id, err := requireRef("collection")
		if err != nil {
			return model.Entry{}, err
		}
		display := model.CollectionDisplay(f.display)
		if display != model.DisplayList && display != model.DisplayIndividual {
			return model.Entry{}, fmt.Errorf("display must be list or individual")
		}
		if f.limit < 0 {
			return model.Entry{}, fmt.Errorf("limit must be non-negative")
		}
		e.Collection = &model.CollectionConfig{
			CollectionID: id,
			Display:      display,
			Rotation:     rot,
			Randomize:    f.randomize,
			Limit:        f.limit,
		}
	case model.KindNote:
		if f.name == "" {
			return model.Entry{}, fmt.Errorf("a note needs --name")
		}
		e.Note = &model.NoteConfig{Name: f.name, Color: f.color}
	case model.KindTodo:
		e.Todo = &model.TodoConfig{}
	case model.KindImage:
		id, err := requireRef("media")
		if err != nil {
			return model.Entry{}, err
		}
		e.Image = &model.ImageConfig{MediaID: id, Title: f.title, URL: f.url}
	case model.KindQuote:
		id, err := requireRef("quote")
		if err != nil {
			return model.Entry{}, err
		}
		format := model.QuoteFormat(f.format)
		if format != model.FormatStandard && format != model.FormatMinimal {
			return model.Entry{}, fmt.Errorf("format must be standard or minimal")
		}
		e.Quote = &model.QuoteConfig{
			QuoteID:       id,
			Color:         f.color,
			Rotation:      rot,
			Format:        format,
			FavoritesOnly: f.favorites,
		}
	case model.KindSubnode:
		id, err := requireRef("node")
		if err != nil {
			return model.Entry{}, err
		}
		e.Subnode = &model.SubnodeConfig{NodeID: id, Rotation: rot}
	}
	return e, nil
}

func newLayoutRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove a widget from the node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient(logger.Default())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodeID, err := app.resolveNodeID(cmd.Context(), client)
			if err != nil {
				return writeErr(cmd, err)
			}
			saved, err := client.RemoveWidget(cmd.Context(), nodeID, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"columns": layoutView(saved)})
		},
	}
}
