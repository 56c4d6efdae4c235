package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/topo"
)

const topologyJSON = `{
  "whId": 7,
  "nodes": [
    {"code": "61-001", "type": "FEED", "cmd": 1},
    {"code": "SC-01", "type": "SCANNER", "cmd": 2},
    {"code": "EJ-01", "type": "EJECT", "cmd": 3}
  ],
  "edges": [
    {"from": "61-001", "to": "SC-01", "distance": 1, "capacity": 2},
    {"from": "SC-01", "to": "EJ-01", "distance": 1, "capacity": 1}
  ],
  "loops": []
}`

// isolate points config and cache lookups at temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	outPath := filepath.Join(dir, "plant.flow.json")

	stdout, err := execute(t, "", "layout", in, "-s", "flow", "-o", outPath)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(stdout, "Layout complete") || !strings.Contains(stdout, "fresh") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	doc, err := wio.LoadDocument(outPath)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	want := []topo.Position{{X: 50, Y: 50}, {X: 130, Y: 50}, {X: 210, Y: 50}}
	for i, n := range doc.Nodes {
		if n.Position != want[i] {
			t.Errorf("%s at %v, want %v", n.Data.Code, n.Position, want[i])
		}
	}

	stdout, err = execute(t, "", "layout", in, "-s", "flow", "-o", outPath)
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !strings.Contains(stdout, "cached") {
		t.Errorf("second run should hit the cache:\n%s", stdout)
	}
}

func TestLayoutCommandDefaultOutput(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	if _, err := execute(t, "", "layout", in, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plant.layout.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestLayoutCommandUnknownStrategy(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	_, err := execute(t, "", "layout", in, "-s", "spiral")
	if !errors.Is(err, errors.ErrCodeUnknownLayout) {
		t.Errorf("err = %v, want UNKNOWN_LAYOUT", err)
	}
}

func TestConvertDOTToTopology(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.dot", `digraph G {
  "61-001" [shape=box];
  "SC-01" [shape=circle];
  "61-001" -> "SC-01" [color=blue];
}`)

	stdout, err := execute(t, "", "convert", in, "--wh-id", "99")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var out struct {
		WhID  int64 `json:"whId"`
		Nodes []struct {
			Code string `json:"code"`
			Type string `json:"type"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if out.WhID != 99 || len(out.Nodes) != 2 || len(out.Edges) != 1 {
		t.Fatalf("unexpected topology: %+v", out)
	}
	if out.Nodes[0].Type != "EJECT" || out.Nodes[1].Type != "SCANNER" {
		t.Errorf("types = %s, %s", out.Nodes[0].Type, out.Nodes[1].Type)
	}
	if out.Edges[0].From != "61-001" || out.Edges[0].To != "SC-01" {
		t.Errorf("edge = %+v", out.Edges[0])
	}
}

func TestConvertToDocument(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	outPath := filepath.Join(dir, "doc.json")

	stdout, err := execute(t, "", "convert", in, "--to", "document", "-o", outPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(stdout, "Converted topology to document") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	doc, err := wio.LoadDocument(outPath)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("document has %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}

	if _, err := execute(t, "", "convert", in, "--to", "yaml"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestRenderDOT(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	outPath := filepath.Join(dir, "plant.gv")

	if _, err := execute(t, "", "render", in, "-o", outPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "layout=neato;") {
		t.Errorf("expected DOT output:\n%s", data)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "", formatSVG, false},
		{"", "out.svg", formatSVG, false},
		{"", "out.PNG", formatPNG, false},
		{"", "out.gv", formatDOT, false},
		{"pdf", "out.svg", formatPDF, false},
		{"", "out.txt", "", true},
		{"gif", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v, wantErr %v", tt.format, tt.output, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.output, got, tt.want)
		}
	}
}

func TestEditCommand(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "new.json")

	script := `add A scanner 1 0 0; add B eject 2 200 0
connect A B main
text 10 300 "loading dock"
select A; copy; paste
save`
	stdout, err := execute(t, "", "edit", path, "-c", script)
	if err != nil {
		t.Fatalf("edit: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "pasted 1 nodes") || !strings.Contains(stdout, "Saved") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	doc, err := wio.LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 4 || len(doc.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges; want 4, 1", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Edges[0].Label != "main" {
		t.Errorf("edge label = %q", doc.Edges[0].Label)
	}
	if got := doc.Nodes[2].Attr(topo.AttrText); got != "loading dock" {
		t.Errorf("annotation text = %q", got)
	}
	if pasted := doc.Nodes[3]; pasted.Data.Code != "A" || pasted.Position != (topo.Position{X: 50, Y: 50}) {
		t.Errorf("pasted node = %s at %v", pasted.Data.Code, pasted.Position)
	}
}

func TestEditCommandFromStdinWithUndo(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	outPath := filepath.Join(dir, "edited.json")

	script := "delete SC-01\nundo\nundo\nredo\ndelete EJ-01\nsave\n"
	if _, err := execute(t, script, "edit", in, "-o", outPath); err != nil {
		t.Fatalf("edit: %v", err)
	}
	doc, err := wio.LoadDocument(outPath)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	// the second undo stops at the loaded graph and redo deletes SC-01
	// again, so only 61-001 is left
	if len(doc.Nodes) != 1 || len(doc.Edges) != 0 {
		t.Errorf("got %d nodes, %d edges; want 1, 0", len(doc.Nodes), len(doc.Edges))
	}
	if len(doc.Nodes) == 1 && doc.Nodes[0].Data.Code != "61-001" {
		t.Errorf("remaining node = %s", doc.Nodes[0].Data.Code)
	}
}

func TestEditSelectReplacesPastedSelection(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "new.json")

	script := "add A simple 1 0 0; add B simple 2 300 300; select A; copy; paste; select B; delete; save"
	if _, err := execute(t, "", "edit", path, "-c", script); err != nil {
		t.Fatalf("edit: %v", err)
	}
	doc, err := wio.LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(doc.Nodes))
	}
	for _, n := range doc.Nodes {
		if n.Data.Code != "A" {
			t.Errorf("node %s survived; want the original A and its pasted copy", n.Data.Code)
		}
	}
	if doc.Nodes[1].Position != (topo.Position{X: 50, Y: 50}) {
		t.Errorf("pasted copy at %v, want {50 50}", doc.Nodes[1].Position)
	}
}

func TestEditSetEdge(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	outPath := filepath.Join(dir, "edited.json")

	script := `set 61-001->SC-01 distance=4.5 capacity=3 default=true label="main line" path=lshaped color="#3b82f6" width=3 zone=A
set SC-01->EJ-01 zone=B; set SC-01->EJ-01 zone=
toggle SC-01 junction; toggle EJ-01 qc; toggle EJ-01 qc
save`
	if _, err := execute(t, script, "edit", in, "-o", outPath); err != nil {
		t.Fatalf("edit: %v", err)
	}
	doc, err := wio.LoadDocument(outPath)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(doc.Edges))
	}
	e := doc.Edges[0]
	if e.Data.Distance != 4.5 || e.Data.Capacity != 3 || !e.Data.Default {
		t.Errorf("edge data = %+v", e.Data)
	}
	if e.Label != "main line" || e.Data.PathType != topo.PathLShaped || e.Data.Attrs["zone"] != "A" {
		t.Errorf("edge = %+v", e)
	}
	if e.Style.StrokeColor != "#3b82f6" || e.Style.StrokeWidth != 3 {
		t.Errorf("edge style = %+v", e.Style)
	}
	if _, ok := doc.Edges[1].Data.Attrs["zone"]; ok {
		t.Errorf("zone attr not removed: %v", doc.Edges[1].Data.Attrs)
	}
	if !doc.Nodes[1].Flag(topo.AttrJunction) {
		t.Errorf("SC-01 attrs = %v, want junction", doc.Nodes[1].Data.Attrs)
	}
	if doc.Nodes[2].Flag("qc") {
		t.Errorf("EJ-01 qc toggled twice should be off: %v", doc.Nodes[2].Data.Attrs)
	}
}

func TestEditUndoKeepsLoadedDocument(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	docPath := filepath.Join(dir, "plant.doc.json")
	if _, err := execute(t, "save "+docPath, "edit", in); err != nil {
		t.Fatalf("edit: %v", err)
	}

	stdout, err := execute(t, "undo; save", "edit", docPath)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(stdout, "nothing to undo") {
		t.Errorf("expected a warning, got:\n%s", stdout)
	}
	doc, err := wio.LoadDocument(docPath)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("got %d nodes, %d edges; want 3, 2", len(doc.Nodes), len(doc.Edges))
	}
}

func TestEditImport(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "plant.json", topologyJSON)
	path := filepath.Join(dir, "new.json")

	script := "add X; import " + in + "; save; undo; save " + filepath.Join(dir, "undone.json")
	if _, err := execute(t, "", "edit", path, "-c", script); err != nil {
		t.Fatalf("edit: %v", err)
	}
	doc, err := wio.LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("imported: got %d nodes, %d edges; want 3, 2", len(doc.Nodes), len(doc.Edges))
	}
	undone, err := wio.LoadDocument(filepath.Join(dir, "undone.json"))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(undone.Nodes) != 1 || undone.Nodes[0].Data.Code != "X" {
		t.Errorf("after undo: %+v", undone.Nodes)
	}
}

func TestEditCommandErrors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "new.json")

	tests := []struct {
		script string
		want   string
	}{
		{"fly away", "unknown command"},
		{"add A\nconnect A A", "line 2"},
		{"connect X Y", "no node"},
		{"move A 1", "usage"},
		{`text 1 2 "open`, "unbalanced quote"},
		{"add A; connect A A", "INVALID_CONNECTION"},
		{"add A; add B; connect A B; set A->B capacity=0", "INVALID_INPUT"},
		{"add A; toggle A sparkle", "unknown flag"},
	}
	for _, tt := range tests {
		_, err := execute(t, "", "edit", path, "-c", tt.script)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("script %q: err = %v, want %q", tt.script, err, tt.want)
		}
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want [][]string
	}{
		{"", nil},
		{"  # comment", nil},
		{"add A scanner", [][]string{{"add", "A", "scanner"}}},
		{"copy; paste", [][]string{{"copy"}, {"paste"}}},
		{`text 1 2 "a; b # c"`, [][]string{{"text", "1", "2", "a; b # c"}}},
		{`set A note="say \"hi\""`, [][]string{{"set", "A", `note=say "hi"`}}},
		{`set A flag=""`, [][]string{{"set", "A", "flag="}}},
		{"set A->B label=main ; undo", [][]string{{"set", "A->B", "label=main"}, {"undo"}}},
		{`set A note="x;"`, [][]string{{"set", "A", "note=x"}}},
		{"undo # oops", [][]string{{"undo"}}},
	}
	for _, tt := range tests {
		got, err := splitLine(tt.line)
		if err != nil {
			t.Errorf("splitLine(%q) error: %v", tt.line, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("splitLine(%q) = %q, want %q", tt.line, got, tt.want)
			continue
		}
		for i := range got {
			if strings.Join(got[i], "|") != strings.Join(tt.want[i], "|") {
				t.Errorf("splitLine(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)
	stdout, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(stdout) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(stdout), want)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	cfgPath := writeFile(t, dir, "whtopo.toml", "[server]\naddr = \":7070\"\n")

	stdout, err := execute(t, "", "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, `addr = ":7070"`) {
		t.Errorf("config show missing override:\n%s", stdout)
	}

	bad := writeFile(t, dir, "bad.toml", "[server]\nport = 1\n")
	if _, err := execute(t, "", "--config", bad, "config", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestFlagCompletion(t *testing.T) {
	isolate(t)
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "layout", "plant.json", "--strategy", ""}, []string{"flow", "hierarchical", "smart"}},
		{[]string{"__complete", "render", "plant.json", "--format", ""}, []string{"svg", "dot", "pdf", "png"}},
		{[]string{"__complete", "convert", "plant.dot", "--to", ""}, []string{"topology", "document"}},
		{[]string{"__complete", "edit", ""}, []string{"json", "dot", "gv"}},
	}
	for _, tt := range tests {
		stdout, err := execute(t, "", tt.args...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		for _, want := range tt.want {
			if !strings.Contains(stdout, want+"\n") {
				t.Errorf("%v: completions %q missing %q", tt.args, stdout, want)
			}
		}
	}
}
