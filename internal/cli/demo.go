package cli

import (
	"context"

	"nodeboard/internal/api"
	"nodeboard/internal/model"
)

// newDemoClient builds an in-memory node populated with every widget kind, so
// the board and the headless commands can be tried without a server.
func newDemoClient() *api.Fake {
	f := api.NewFake()

	reading := model.Node{ID: model.NewID(), Name: "Reading"}
	reading.Layout.Columns[0] = []model.Entry{
		{ID: model.NewID(), Kind: model.KindNote, Note: &model.NoteConfig{Name: "Library card renewal", Color: 2}},
	}
	f.SeedNode(reading)

	f.SeedQuotes([]model.Quote{
		{ID: model.NewID(), Text: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci", Favorite: true},
		{ID: model.NewID(), Text: "Make it work, make it right, make it fast.", Author: "Kent Beck"},
		{ID: model.NewID(), Text: "The best way out is always through.", Author: "Robert Frost"},
	})
	f.SeedTasks([]model.TodoTask{
		{ID: model.NewID(), Text: "Water the plants"},
		{ID: model.NewID(), Text: "Book dentist appointment"},
		{ID: model.NewID(), Text: "Return the drill", Done: true},
	})

	links := model.Entry{
		ID:   model.NewID(),
		Kind: model.KindCollection,
		Collection: &model.CollectionConfig{
			CollectionID: model.NewID(),
			Display:      model.DisplayList,
			Rotation:     model.RotationNever,
		},
	}
	f.SeedItems(links.ID, []model.CollectionItem{
		{ID: model.NewID(), Title: "Go proverbs", URL: "https://go-proverbs.github.io"},
		{ID: model.NewID(), Title: "A tour of Go", URL: "https://go.dev/tour", Note: "revisit generics chapter"},
		{ID: model.NewID(), Title: "Effective Go", URL: "https://go.dev/doc/effective_go"},
	})

	var l model.Layout
	l.Columns[0] = []model.Entry{
		links,
		{ID: model.NewID(), Kind: model.KindNote, Note: &model.NoteConfig{Name: "Call the plumber before Friday", Color: 1}},
	}
	l.Columns[1] = []model.Entry{
		{ID: model.NewID(), Kind: model.KindTodo, Todo: &model.TodoConfig{}},
		{ID: model.NewID(), Kind: model.KindQuote, Quote: &model.QuoteConfig{
			QuoteID:  model.NewID(),
			Rotation: 30,
			Format:   model.FormatStandard,
		}},
	}
	l.Columns[2] = []model.Entry{
		{ID: model.NewID(), Kind: model.KindImage, Image: &model.ImageConfig{
			MediaID: model.NewID(),
			Title:   "Trail map",
			URL:     "https://example.org/trail-map.png",
		}},
		{ID: model.NewID(), Kind: model.KindSubnode, Subnode: &model.SubnodeConfig{
			NodeID:   reading.ID,
			Rotation: model.RotationNever,
		}},
	}
	// Seeding through the client keeps the fake's own bookkeeping consistent.
	_, _ = f.ChangeLayout(context.Background(), f.Node().ID, l)
	return f
}
