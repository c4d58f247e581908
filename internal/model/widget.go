package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the widget variants that can be placed on a node.
type Kind string

const (
	KindCollection Kind = "collection"
	KindNote       Kind = "note"
	KindTodo       Kind = "todo"
	KindImage      Kind = "image"
	KindQuote      Kind = "quote"
	KindSubnode    Kind = "subnode"
)

// Kinds lists every known widget kind in menu order.
var Kinds = []Kind{KindCollection, KindNote, KindTodo, KindImage, KindQuote, KindSubnode}

// KnownKind reports whether k is one of the six supported widget kinds.
// Entries with an unknown kind are kept in the layout but render as placeholders.
func KnownKind(k Kind) bool {
	switch k {
	case KindCollection, KindNote, KindTodo, KindImage, KindQuote, KindSubnode:
		return true
	}
	return false
}

// Rotation is a widget refresh period in minutes. RotationNever disables the timer.
type Rotation int

const RotationNever Rotation = -1

// RotationPeriods is the enumerated set of selectable periods, in menu order.
var RotationPeriods = []Rotation{RotationNever, 1, 5, 10, 30, 60, 1440}

func (r Rotation) Valid() bool {
	for _, p := range RotationPeriods {
		if r == p {
			return true
		}
	}
	return false
}

// Interval returns the tick interval and whether rotation is enabled at all.
func (r Rotation) Interval() (time.Duration, bool) {
	if !r.Valid() || r == RotationNever {
		return 0, false
	}
	return time.Duration(r) * time.Minute, true
}

func (r Rotation) Label() string {
	switch r {
	case RotationNever:
		return "never"
	case 60:
		return "1h"
	case 1440:
		return "24h"
	default:
		return fmt.Sprintf("%dm", int(r))
	}
}

// normalizeRotation maps values outside the enumerated set to RotationNever,
// so a server sending an unexpected period degrades to a static widget rather
// than arming an arbitrary timer.
func normalizeRotation(r Rotation) Rotation {
	if r.Valid() {
		return r
	}
	return RotationNever
}

// PaletteSlots is the number of enumerated note/quote color slots.
const PaletteSlots = 4

type CollectionDisplay string

const (
	DisplayList       CollectionDisplay = "list"
	DisplayIndividual CollectionDisplay = "individual"
)

type QuoteFormat string

const (
	FormatStandard QuoteFormat = "standard"
	FormatMinimal  QuoteFormat = "minimal"
)

// CollectionConfig configures a collection widget: a window onto the
// referenced collection's member items.
type CollectionConfig struct {
	CollectionID string
	Display      CollectionDisplay
	Rotation     Rotation
	Randomize    bool
	Limit        int
}

// NoteConfig configures a sticky-note widget.
type NoteConfig struct {
	Name  string
	Color int // palette slot, 0..PaletteSlots-1
}

// TodoConfig configures a todo-list widget. The task list itself is
// live-fetched, so there is nothing to configure.
type TodoConfig struct{}

// ImageConfig configures an image widget.
type ImageConfig struct {
	MediaID string
	Title   string
	URL     string
}

// QuoteConfig configures a quote widget.
type QuoteConfig struct {
	QuoteID       string
	Color         int
	Rotation      Rotation
	Format        QuoteFormat
	FavoritesOnly bool
}

// SubnodeConfig configures an embedded sub-node widget.
type SubnodeConfig struct {
	NodeID   string
	Rotation Rotation
}

// Entry is one placed widget instance in a node layout. Its own ID is stable
// across moves; the referenced-object id inside the config never changes after
// creation. Exactly one config pointer is set for a known kind.
type Entry struct {
	ID   string
	Kind Kind

	Collection *CollectionConfig
	Note       *NoteConfig
	Todo       *TodoConfig
	Image      *ImageConfig
	Quote      *QuoteConfig
	Subnode    *SubnodeConfig
}

// Rotation returns the entry's configured refresh period, RotationNever for
// kinds that do not rotate.
func (e Entry) Rotation() Rotation {
	switch e.Kind {
	case KindCollection:
		if e.Collection != nil {
			return e.Collection.Rotation
		}
	case KindQuote:
		if e.Quote != nil {
			return e.Quote.Rotation
		}
	case KindSubnode:
		if e.Subnode != nil {
			return e.Subnode.Rotation
		}
	}
	return RotationNever
}

// Validate checks the entry's id, kind membership and config shape.
func (e Entry) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("entry id %q: %w", e.ID, err)
	}
	if !KnownKind(e.Kind) {
		return fmt.Errorf("unknown widget kind %q", e.Kind)
	}
	switch e.Kind {
	case KindCollection:
		if e.Collection == nil {
			return fmt.Errorf("collection entry %s: missing config", e.ID)
		}
		if _, err := uuid.Parse(e.Collection.CollectionID); err != nil {
			return fmt.Errorf("collection entry %s: collection id: %w", e.ID, err)
		}
	case KindNote:
		if e.Note == nil {
			return fmt.Errorf("note entry %s: missing config", e.ID)
		}
		if e.Note.Color < 0 || e.Note.Color >= PaletteSlots {
			return fmt.Errorf("note entry %s: color slot %d out of range", e.ID, e.Note.Color)
		}
	case KindTodo:
		if e.Todo == nil {
			return fmt.Errorf("todo entry %s: missing config", e.ID)
		}
	case KindImage:
		if e.Image == nil {
			return fmt.Errorf("image entry %s: missing config", e.ID)
		}
		if _, err := uuid.Parse(e.Image.MediaID); err != nil {
			return fmt.Errorf("image entry %s: media id: %w", e.ID, err)
		}
	case KindQuote:
		if e.Quote == nil {
			return fmt.Errorf("quote entry %s: missing config", e.ID)
		}
		if _, err := uuid.Parse(e.Quote.QuoteID); err != nil {
			return fmt.Errorf("quote entry %s: quote id: %w", e.ID, err)
		}
		if e.Quote.Color < 0 || e.Quote.Color >= PaletteSlots {
			return fmt.Errorf("quote entry %s: color slot %d out of range", e.ID, e.Quote.Color)
		}
	case KindSubnode:
		if e.Subnode == nil {
			return fmt.Errorf("subnode entry %s: missing config", e.ID)
		}
		if _, err := uuid.Parse(e.Subnode.NodeID); err != nil {
			return fmt.Errorf("subnode entry %s: node id: %w", e.ID, err)
		}
	}
	return nil
}

// clone returns a deep copy so that optimistic edits never leak into a
// snapshot held elsewhere (rollback, cache).
func (e Entry) clone() Entry {
	out := Entry{ID: e.ID, Kind: e.Kind}
	if e.Collection != nil {
		c := *e.Collection
		out.Collection = &c
	}
	if e.Note != nil {
		c := *e.Note
		out.Note = &c
	}
	if e.Todo != nil {
		c := *e.Todo
		out.Todo = &c
	}
	if e.Image != nil {
		c := *e.Image
		out.Image = &c
	}
	if e.Quote != nil {
		c := *e.Quote
		out.Quote = &c
	}
	if e.Subnode != nil {
		c := *e.Subnode
		out.Subnode = &c
	}
	return out
}

// entryWire is the flat JSON form shared with the server: a kind discriminator
// plus the union of all config fields. Which fields are meaningful per kind is
// enforced on this side of the wire.
type entryWire struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	CollectionID string            `json:"collectionId,omitempty"`
	Display      CollectionDisplay `json:"display,omitempty"`
	Randomize    *bool             `json:"randomize,omitempty"`
	Limit        *int              `json:"limit,omitempty"`

	Name  string `json:"name,omitempty"`
	Color *int   `json:"color,omitempty"`

	MediaID string `json:"mediaId,omitempty"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`

	QuoteID       string      `json:"quoteId,omitempty"`
	Format        QuoteFormat `json:"format,omitempty"`
	FavoritesOnly *bool       `json:"favoritesOnly,omitempty"`

	NodeID string `json:"nodeId,omitempty"`

	Rotation *Rotation `json:"rotation,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	w := entryWire{ID: e.ID, Kind: e.Kind}
	switch e.Kind {
	case KindCollection:
		if e.Collection != nil {
			c := e.Collection
			w.CollectionID = c.CollectionID
			w.Display = c.Display
			w.Rotation = &c.Rotation
			w.Randomize = &c.Randomize
			w.Limit = &c.Limit
		}
	case KindNote:
		if e.Note != nil {
			w.Name = e.Note.Name
			w.Color = &e.Note.Color
		}
	case KindTodo:
		// No config fields.
	case KindImage:
		if e.Image != nil {
			w.MediaID = e.Image.MediaID
			w.Title = e.Image.Title
			w.URL = e.Image.URL
		}
	case KindQuote:
		if e.Quote != nil {
			c := e.Quote
			w.QuoteID = c.QuoteID
			w.Color = &c.Color
			w.Rotation = &c.Rotation
			w.Format = c.Format
			w.FavoritesOnly = &c.FavoritesOnly
		}
	case KindSubnode:
		if e.Subnode != nil {
			w.NodeID = e.Subnode.NodeID
			w.Rotation = &e.Subnode.Rotation
		}
	}
	return json.Marshal(w)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	rotation := RotationNever
	if w.Rotation != nil {
		rotation = normalizeRotation(*w.Rotation)
	}
	color := 0
	if w.Color != nil && *w.Color >= 0 && *w.Color < PaletteSlots {
		color = *w.Color
	}

	out := Entry{ID: w.ID, Kind: w.Kind}
	switch w.Kind {
	case KindCollection:
		display := w.Display
		if display != DisplayIndividual {
			display = DisplayList
		}
		out.Collection = &CollectionConfig{
			CollectionID: w.CollectionID,
			Display:      display,
			Rotation:     rotation,
			Randomize:    w.Randomize != nil && *w.Randomize,
		}
		if w.Limit != nil && *w.Limit > 0 {
			out.Collection.Limit = *w.Limit
		}
	case KindNote:
		out.Note = &NoteConfig{Name: w.Name, Color: color}
	case KindTodo:
		out.Todo = &TodoConfig{}
	case KindImage:
		out.Image = &ImageConfig{MediaID: w.MediaID, Title: w.Title, URL: w.URL}
	case KindQuote:
		format := w.Format
		if format != FormatMinimal {
			format = FormatStandard
		}
		out.Quote = &QuoteConfig{
			QuoteID:       w.QuoteID,
			Color:         color,
			Rotation:      rotation,
			Format:        format,
			FavoritesOnly: w.FavoritesOnly != nil && *w.FavoritesOnly,
		}
	case KindSubnode:
		out.Subnode = &SubnodeConfig{NodeID: w.NodeID, Rotation: rotation}
	default:
		// Unknown kinds are preserved (id + kind) so the layout's shape
		// survives a round-trip; rendering decides what to show.
	}
	*e = out
	return nil
}

// NewID returns a fresh uuid string. The server assigns entry ids in normal
// operation; this exists for tests and the headless CLI.
func NewID() string {
	return uuid.New().String()
}
