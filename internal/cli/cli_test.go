package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"nodeboard/internal/api"
	"nodeboard/internal/cache"
	"nodeboard/internal/model"
)

func runCLI(t *testing.T, client api.Client, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(&App{client: client})

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustData(t *testing.T, stdout []byte) any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, string(stdout))
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected envelope with data key, got: %s", string(stdout))
	}
	return data
}

func TestNodesListOutput(t *testing.T) {
	f := api.NewFake()
	f.SeedNode(model.Node{ID: model.NewID(), Name: "Garden"})

	stdout, stderr, err := runCLI(t, f, []string{"nodes", "list"})
	if err != nil {
		t.Fatalf("nodes list: %v\nstderr:\n%s", err, string(stderr))
	}
	rows, ok := mustData(t, stdout).([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected two node rows, got: %s", string(stdout))
	}
	first, _ := rows[0].(map[string]any)
	if first["name"] != "Home" {
		t.Fatalf("expected the home node first, got: %v", first)
	}
}

func TestNodesRenameRoundTrip(t *testing.T) {
	f := api.NewFake()
	id := f.Node().ID

	stdout, stderr, err := runCLI(t, f, []string{"nodes", "rename", id, "Den"})
	if err != nil {
		t.Fatalf("nodes rename: %v\nstderr:\n%s", err, string(stderr))
	}
	data, _ := mustData(t, stdout).(map[string]any)
	if data["name"] != "Den" {
		t.Fatalf("expected renamed output, got: %s", string(stdout))
	}
	if got := f.Node().Name; got != "Den" {
		t.Fatalf("expected server rename, got=%q", got)
	}
}

func TestNodesListCachedReadsSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("NODEBOARD_CACHE_PATH", path)

	store := cache.Store{Path: path}
	node := model.Node{ID: model.NewID(), Name: "Garden"}
	node.Layout.Columns[0] = []model.Entry{{ID: model.NewID(), Kind: model.KindTodo, Todo: &model.TodoConfig{}}}
	if err := store.SaveSnapshot(context.Background(), node); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	// No client: the cached listing must never touch the server.
	stdout, stderr, err := runCLI(t, nil, []string{"nodes", "list", "--cached"})
	if err != nil {
		t.Fatalf("nodes list --cached: %v\nstderr:\n%s", err, string(stderr))
	}
	rows, _ := mustData(t, stdout).([]any)
	if len(rows) != 1 {
		t.Fatalf("expected one cached row, got: %s", string(stdout))
	}
	row, _ := rows[0].(map[string]any)
	if row["name"] != "Garden" || row["widgets"] != float64(1) {
		t.Fatalf("unexpected cached row: %s", string(stdout))
	}
}

func TestLayoutShowDefaultsToFirstNode(t *testing.T) {
	f := api.NewFake()
	var l model.Layout
	l.Columns[0] = []model.Entry{{ID: model.NewID(), Kind: model.KindNote, Note: &model.NoteConfig{Name: "alpha"}}}
	if _, err := f.ChangeLayout(context.Background(), f.Node().ID, l); err != nil {
		t.Fatalf("seed layout: %v", err)
	}

	stdout, stderr, err := runCLI(t, f, []string{"layout", "show"})
	if err != nil {
		t.Fatalf("layout show: %v\nstderr:\n%s", err, string(stderr))
	}
	data, _ := mustData(t, stdout).(map[string]any)
	if data["name"] != "Home" {
		t.Fatalf("expected the home node, got: %s", string(stdout))
	}
	cols, _ := data["columns"].([]any)
	if len(cols) != 3 {
		t.Fatalf("expected three columns, got: %s", string(stdout))
	}
	if !strings.Contains(string(stdout), "alpha") {
		t.Fatalf("expected the note title in the output, got: %s", string(stdout))
	}
}

func TestLayoutMoveAppliesSlotArithmetic(t *testing.T) {
	f := api.NewFake()
	ids := make([]string, 4)
	var l model.Layout
	for i, name := range []string{"a", "b", "c", "d"} {
		ids[i] = model.NewID()
		l.Columns[0] = append(l.Columns[0], model.Entry{
			ID: ids[i], Kind: model.KindNote, Note: &model.NoteConfig{Name: name},
		})
	}
	if _, err := f.ChangeLayout(context.Background(), f.Node().ID, l); err != nil {
		t.Fatalf("seed layout: %v", err)
	}
	base := f.Calls("ChangeLayout")

	// Moving the first widget to the slot after the last lands it at the end.
	_, stderr, err := runCLI(t, f, []string{"layout", "move", ids[0], "0", "4"})
	if err != nil {
		t.Fatalf("layout move: %v\nstderr:\n%s", err, string(stderr))
	}
	if got := f.Calls("ChangeLayout"); got != base+1 {
		t.Fatalf("expected one save, got %d extra", got-base)
	}
	got := f.Node().Layout.Columns[0]
	want := []string{"b", "c", "d", "a"}
	for i, w := range want {
		if got[i].Note.Name != w {
			t.Fatalf("expected order %v, got %q at %d", want, got[i].Note.Name, i)
		}
	}
}

func TestLayoutMoveOwnSlotIsNoop(t *testing.T) {
	f := api.NewFake()
	id := model.NewID()
	var l model.Layout
	l.Columns[0] = []model.Entry{{ID: id, Kind: model.KindNote, Note: &model.NoteConfig{Name: "a"}}}
	if _, err := f.ChangeLayout(context.Background(), f.Node().ID, l); err != nil {
		t.Fatalf("seed layout: %v", err)
	}
	base := f.Calls("ChangeLayout")

	stdout, stderr, err := runCLI(t, f, []string{"layout", "move", id, "0", "0"})
	if err != nil {
		t.Fatalf("layout move: %v\nstderr:\n%s", err, string(stderr))
	}
	if got := f.Calls("ChangeLayout"); got != base {
		t.Fatalf("expected no save for a no-op move, got %d extra", got-base)
	}
	data, _ := mustData(t, stdout).(map[string]any)
	if data["changed"] != false {
		t.Fatalf("expected changed=false, got: %s", string(stdout))
	}
}

func TestLayoutAddNote(t *testing.T) {
	f := api.NewFake()

	stdout, stderr, err := runCLI(t, f, []string{"layout", "add", "note", "--name", "groceries", "--color", "2"})
	if err != nil {
		t.Fatalf("layout add: %v\nstderr:\n%s", err, string(stderr))
	}
	if f.Node().Layout.Count() != 1 {
		t.Fatalf("expected one widget on the server")
	}
	added := f.Node().Layout.Columns[0][0]
	if added.Note == nil || added.Note.Name != "groceries" || added.Note.Color != 2 {
		t.Fatalf("expected the note config stored, got=%#v", added.Note)
	}
	if !strings.Contains(string(stdout), added.ID) {
		t.Fatalf("expected the assigned id in the output, got: %s", string(stdout))
	}
}

func TestLayoutAddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"layout", "add", "weather"}},
		{"note without name", []string{"layout", "add", "note"}},
		{"collection without ref", []string{"layout", "add", "collection"}},
		{"quote with junk ref", []string{"layout", "add", "quote", "--ref", "not-a-uuid"}},
		{"bad rotation", []string{"layout", "add", "subnode", "--ref", model.NewID(), "--rotation", "7"}},
		{"bad color", []string{"layout", "add", "note", "--name", "x", "--color", "9"}},
		{"bad display", []string{"layout", "add", "collection", "--ref", model.NewID(), "--display", "grid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := api.NewFake()
			_, _, err := runCLI(t, f, tt.args)
			if err == nil {
				t.Fatalf("expected %s to fail", tt.name)
			}
			if f.Calls("AddWidget") != 0 {
				t.Fatalf("expected no add call for invalid input")
			}
		})
	}
}

func TestLayoutRemove(t *testing.T) {
	f := api.NewFake()
	id := model.NewID()
	var l model.Layout
	l.Columns[1] = []model.Entry{{ID: id, Kind: model.KindTodo, Todo: &model.TodoConfig{}}}
	if _, err := f.ChangeLayout(context.Background(), f.Node().ID, l); err != nil {
		t.Fatalf("seed layout: %v", err)
	}

	_, stderr, err := runCLI(t, f, []string{"layout", "remove", id})
	if err != nil {
		t.Fatalf("layout remove: %v\nstderr:\n%s", err, string(stderr))
	}
	if got := f.Node().Layout.Count(); got != 0 {
		t.Fatalf("expected empty layout, got %d entries", got)
	}
}

func TestDocsListsTopics(t *testing.T) {
	stdout, _, err := runCLI(t, nil, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	data, _ := mustData(t, stdout).(map[string]any)
	topics, _ := data["topics"].([]any)
	if len(topics) < 3 {
		t.Fatalf("expected the embedded topics, got: %s", string(stdout))
	}
	if !strings.Contains(string(stdout), `"keys"`) {
		t.Fatalf("expected the keys topic listed, got: %s", string(stdout))
	}
}

func TestDocsTopicRawAndEnveloped(t *testing.T) {
	stdout, _, err := runCLI(t, nil, []string{"docs", "keys", "--raw"})
	if err != nil {
		t.Fatalf("docs keys --raw: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Key bindings") {
		t.Fatalf("expected raw markdown, got: %s", string(stdout))
	}

	stdout, _, err = runCLI(t, nil, []string{"docs", "keys"})
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	data, _ := mustData(t, stdout).(map[string]any)
	if data["topic"] != "keys" {
		t.Fatalf("expected the topic in the envelope, got: %s", string(stdout))
	}
	if md, _ := data["markdown"].(string); !strings.Contains(md, "grab") {
		t.Fatalf("expected the keymap body, got: %s", string(stdout))
	}
}

func TestDocsUnknownTopic(t *testing.T) {
	_, stderr, err := runCLI(t, nil, []string{"docs", "nope"})
	if err == nil {
		t.Fatal("expected an unknown topic error")
	}
	if !strings.Contains(string(stderr), "unknown docs topic") {
		t.Fatalf("expected the error on stderr, got: %s", string(stderr))
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, nil, []string{"version"})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "nodeboard ") {
		t.Fatalf("expected version line, got: %s", string(stdout))
	}
}

func TestDemoClientServesEveryKind(t *testing.T) {
	f := newDemoClient()

	node, err := f.GetNode(context.Background(), f.Node().ID)
	if err != nil {
		t.Fatalf("demo node: %v", err)
	}
	seen := map[model.Kind]bool{}
	for _, col := range node.Layout.Columns {
		for _, e := range col {
			seen[e.Kind] = true
		}
	}
	for _, k := range model.Kinds {
		if !seen[k] {
			t.Fatalf("expected demo board to carry a %s widget", k)
		}
	}

	nodes, err := f.ListNodes(context.Background())
	if err != nil || len(nodes) != 2 {
		t.Fatalf("expected two demo nodes, got %d (err=%v)", len(nodes), err)
	}

	// The embedded node resolves, so sub-node navigation works in the demo.
	var sub *model.SubnodeConfig
	for _, col := range node.Layout.Columns {
		for _, e := range col {
			if e.Subnode != nil {
				sub = e.Subnode
			}
		}
	}
	if sub == nil {
		t.Fatalf("expected a subnode entry")
	}
	if _, err := f.GetNode(context.Background(), sub.NodeID); err != nil {
		t.Fatalf("expected the embedded node to resolve: %v", err)
	}
}
