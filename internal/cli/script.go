package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/store"
	"github.com/matzehuels/whtopo/pkg/topo"
)

const scriptHelp = `Script commands (one per line, '#' starts a comment):

  add <code> [type] [cmd] [x y]   add a station node
  text <x> <y> <text>             add an annotation
  connect <from> <to> [label]     connect two nodes
  set <node> key=value...         update code, type, cmd, text or attributes
  set <edge> key=value...         update distance, capacity, default, label,
                                  path (straight|lshaped), color, width or attributes
  toggle <node> <flag>            flip a quick flag (junction, ptlFeed, qc, ...)
  move <node> <x> <y>             place a node exactly
  drag <node> <x> <y>             drop a node with alignment snapping
  duplicate <node>                copy a node next to itself
  select <node|edge>...           select items ("select none" clears)
  delete [node|edge]...           delete items, or the selection
  copy | paste                    clipboard
  undo | redo                     history
  layout <strategy>               arrange the graph
  list                            print nodes and edges
  import <path>                   replace the graph with a file (undoable)
  clear                           start over with an empty graph
  save [path]                     write the editor document

Nodes are referenced by ID or code; edges by ID or "<from>-><to>".
A word ending in ';' ends a command, so several fit on one line.`

// scriptRunner replays editing commands against a store.
type scriptRunner struct {
	s     *store.Store
	out   printer
	opts  wio.Options // for import
	path  string      // default save target
	dirty bool
}

func newScriptRunner(s *store.Store, out printer, opts wio.Options, path string) *scriptRunner {
	r := &scriptRunner{s: s, out: out, opts: opts, path: path}
	s.Subscribe(func(e store.Event) {
		if e.Committed {
			r.dirty = true
		}
	})
	return r
}

// run executes every line of script. Execution stops at the first failing
// command; the error names its line.
func (r *scriptRunner) run(ctx context.Context, script io.Reader) error {
	sc := bufio.NewScanner(script)
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		stmts, err := splitLine(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, args := range stmts {
			if err := r.exec(ctx, args); err != nil {
				return fmt.Errorf("line %d: %s: %w", lineNo, args[0], err)
			}
		}
	}
	return sc.Err()
}

func (r *scriptRunner) exec(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "add":
		return r.add(args)
	case "text":
		return r.text(args)
	case "connect":
		return r.connect(args)
	case "set":
		return r.set(args)
	case "toggle":
		return r.toggle(args)
	case "move", "drag":
		return r.move(cmd == "drag", args)
	case "duplicate":
		return r.duplicate(args)
	case "select":
		return r.selectItems(args)
	case "delete":
		return r.delete(args)
	case "copy":
		if !r.s.CopySelected() {
			r.out.warn("nothing selected to copy")
		}
	case "paste":
		ids, ok := r.s.Paste()
		if !ok {
			r.out.warn("clipboard is empty")
			return nil
		}
		r.out.info("pasted %d nodes", len(ids))
	case "undo":
		if !r.s.Undo() {
			r.out.warn("nothing to undo")
		}
	case "redo":
		if !r.s.Redo() {
			r.out.warn("nothing to redo")
		}
	case "layout":
		if len(args) != 1 {
			return errUsage("layout <strategy>")
		}
		res, err := r.s.ApplyLayout(ctx, args[0])
		if err != nil {
			return err
		}
		r.out.info("layout %s: %d nodes", args[0], len(res.Nodes))
	case "list":
		r.list()
	case "import":
		return r.importGraph(args)
	case "clear":
		r.s.Reset()
		r.dirty = true
	case "save":
		return r.save(args)
	case "help":
		r.out.line(scriptHelp)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown command %q (try help)", cmd)
	}
	return nil
}

func errUsage(usage string) error {
	return errors.New(errors.ErrCodeInvalidInput, "usage: %s", usage)
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "number %q", a)
		}
		out[i] = f
	}
	return out, nil
}

func (r *scriptRunner) add(args []string) error {
	if len(args) < 1 || len(args) > 5 || len(args) == 4 {
		return errUsage("add <code> [type] [cmd] [x y]")
	}
	typ := topo.TypeSimple
	if len(args) > 1 {
		typ = topo.ParseNodeType(args[1])
	}
	cmdNo := 0
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cmd %q", args[2])
		}
		cmdNo = n
	}
	n := topo.NewNode("", typ, args[0], cmdNo)
	if len(args) == 5 {
		xy, err := parseFloats(args[3:])
		if err != nil {
			return err
		}
		n.Position = topo.Position{X: xy[0], Y: xy[1]}
	}
	added, err := r.s.AddNode(n)
	if err != nil {
		return err
	}
	r.out.info("added %s %s", added.Data.Code, StyleDim.Render(added.ID))
	return nil
}

func (r *scriptRunner) text(args []string) error {
	if len(args) < 3 {
		return errUsage("text <x> <y> <text>")
	}
	xy, err := parseFloats(args[:2])
	if err != nil {
		return err
	}
	_, err = r.s.AddNode(topo.NewTextbox("", strings.Join(args[2:], " "), topo.Position{X: xy[0], Y: xy[1]}))
	return err
}

func (r *scriptRunner) connect(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage("connect <from> <to> [label]")
	}
	src, err := r.node(args[0])
	if err != nil {
		return err
	}
	dst, err := r.node(args[1])
	if err != nil {
		return err
	}
	c := topo.Connection{Source: src.ID, Target: dst.ID}
	if len(args) == 3 {
		c.Label = args[2]
	}
	if _, err := r.s.AddEdge(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConnection, err, "connect %s %s %s", args[0], iconArrow, args[1])
	}
	return nil
}

func (r *scriptRunner) set(args []string) error {
	if len(args) < 2 {
		return errUsage("set <node|edge> key=value...")
	}
	if n, err := r.node(args[0]); err == nil {
		return r.setNode(n, args[1:])
	}
	e, err := r.edge(args[0])
	if err != nil {
		return err
	}
	return r.setEdge(e, args[1:])
}

func (r *scriptRunner) setNode(n topo.Node, pairs []string) error {
	var patch topo.NodePatch
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errUsage("set <node> key=value...")
		}
		switch key {
		case "code":
			patch.Code = topo.Ptr(value)
		case "type":
			patch.Type = topo.Ptr(topo.ParseNodeType(value))
		case "cmd":
			cmdNo, err := strconv.Atoi(value)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "cmd %q", value)
			}
			patch.Cmd = topo.Ptr(cmdNo)
		case "text":
			if !n.IsTextbox() {
				return errors.New(errors.ErrCodeInvalidInput, "%s is not an annotation", n.Data.Code)
			}
			return r.s.SetText(n.ID, value)
		default:
			setAttr(&patch.Attrs, &patch.RemoveAttrs, key, value)
		}
	}
	if _, err := r.s.UpdateNode(n.ID, patch); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "set %s", n.Data.Code)
	}
	return nil
}

func (r *scriptRunner) setEdge(e topo.Edge, pairs []string) error {
	var patch topo.EdgePatch
	style := e.Style
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errUsage("set <edge> key=value...")
		}
		switch key {
		case "label":
			patch.Label = topo.Ptr(value)
		case "distance", "width":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s %q", key, value)
			}
			if key == "width" {
				style.StrokeWidth = f
				patch.Style = &style
			} else {
				patch.Distance = topo.Ptr(f)
			}
		case "capacity":
			c, err := strconv.Atoi(value)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "capacity %q", value)
			}
			patch.Capacity = topo.Ptr(c)
		case "default":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "default %q", value)
			}
			patch.Default = topo.Ptr(b)
		case "path":
			patch.PathType = topo.Ptr(topo.PathType(strings.ToLower(value)))
		case "color":
			style.StrokeColor = value
			patch.Style = &style
		default:
			setAttr(&patch.Attrs, &patch.RemoveAttrs, key, value)
		}
	}
	if _, err := r.s.UpdateEdge(e.ID, patch); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "set edge %s", e.ID)
	}
	return nil
}

// setAttr records key=value in attrs, or marks key for removal when value
// is empty.
func setAttr(attrs *map[string]string, remove *[]string, key, value string) {
	if value == "" {
		*remove = append(*remove, key)
		return
	}
	if *attrs == nil {
		*attrs = map[string]string{}
	}
	(*attrs)[key] = value
}

func (r *scriptRunner) toggle(args []string) error {
	if len(args) != 2 {
		return errUsage("toggle <node> <flag>")
	}
	n, err := r.node(args[0])
	if err != nil {
		return err
	}
	flag := args[1]
	if !slices.Contains(topo.QuickAttributes, flag) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown flag %q (one of %s)", flag, strings.Join(topo.QuickAttributes, ", "))
	}
	patch := topo.NodePatch{Attrs: map[string]string{flag: "true"}}
	if n.Flag(flag) {
		patch = topo.NodePatch{RemoveAttrs: []string{flag}}
	}
	if _, err := r.s.UpdateNode(n.ID, patch); err != nil {
		return err
	}
	r.out.detail("%s %s=%t", n.Data.Code, flag, !n.Flag(flag))
	return nil
}

func (r *scriptRunner) move(snap bool, args []string) error {
	if len(args) != 3 {
		return errUsage("move <node> <x> <y>")
	}
	n, err := r.node(args[0])
	if err != nil {
		return err
	}
	xy, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	pos := topo.Position{X: xy[0], Y: xy[1]}
	if !snap {
		return r.s.MoveNode(n.ID, pos)
	}
	snapped, _ := r.s.Drag(n.ID, pos)
	if lines := r.s.AlignmentGuides(); !lines.Empty() {
		r.out.detail("snapped to %v (guides x=%v y=%v)", snapped, lines.X, lines.Y)
	}
	r.s.EndDrag(n.ID)
	return nil
}

func (r *scriptRunner) duplicate(args []string) error {
	if len(args) != 1 {
		return errUsage("duplicate <node>")
	}
	n, err := r.node(args[0])
	if err != nil {
		return err
	}
	dup, _ := r.s.DuplicateNode(n.ID)
	r.out.info("duplicated as %s", dup.Data.Code)
	return nil
}

func (r *scriptRunner) selectItems(args []string) error {
	if len(args) == 0 || (len(args) == 1 && args[0] == "none") {
		r.s.ClearSelection()
		return nil
	}
	var nodes, edges []string
	for _, ref := range args {
		if n, err := r.node(ref); err == nil {
			nodes = append(nodes, n.ID)
			continue
		}
		e, err := r.edge(ref)
		if err != nil {
			return err
		}
		edges = append(edges, e.ID)
	}
	r.s.ClearSelection()
	switch {
	case len(nodes) == 1 && len(edges) == 0:
		r.s.SelectNode(nodes[0])
	case len(nodes) == 0 && len(edges) == 1:
		r.s.SelectEdge(edges[0])
	default:
		r.s.SetMultiSelection(nodes, edges)
	}
	return nil
}

func (r *scriptRunner) delete(args []string) error {
	if len(args) == 0 {
		if !r.s.DeleteSelected() {
			r.out.warn("nothing selected to delete")
		}
		return nil
	}
	for _, ref := range args {
		if n, err := r.node(ref); err == nil {
			r.s.DeleteNode(n.ID)
			continue
		}
		e, err := r.edge(ref)
		if err != nil {
			return err
		}
		r.s.DeleteEdge(e.ID)
	}
	return nil
}

func (r *scriptRunner) list() {
	nodes := r.s.Nodes()
	codes := make(map[string]string, len(nodes))
	for _, n := range nodes {
		codes[n.ID] = n.Data.Code
		label := n.Data.Code
		if n.IsTextbox() {
			label = fmt.Sprintf("%q", n.Attr(topo.AttrText))
		}
		r.out.keyValue(string(n.Data.Type), fmt.Sprintf("%s @ %g,%g", label, n.Position.X, n.Position.Y))
	}
	for _, e := range r.s.Edges() {
		r.out.keyValue("edge", codes[e.Source]+" "+iconArrow+" "+codes[e.Target])
	}
	r.out.stats(len(nodes), len(r.s.Edges()), false)
}

func (r *scriptRunner) importGraph(args []string) error {
	if len(args) != 1 {
		return errUsage("import <path>")
	}
	nodes, edges, format, err := wio.Load(args[0], r.opts)
	if err != nil {
		return err
	}
	dn, de := r.s.Replace(nodes, edges)
	r.out.info("imported %s (%s): %d nodes, %d edges", args[0], format, len(r.s.Nodes()), len(r.s.Edges()))
	if dn+de > 0 {
		r.out.warn("dropped %d nodes and %d edges", dn, de)
	}
	return nil
}

func (r *scriptRunner) save(args []string) error {
	path := r.path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errUsage("save <path>")
	}
	if err := wio.SaveDocument(path, wio.NewDocument(r.s.Nodes(), r.s.Edges())); err != nil {
		return err
	}
	r.dirty = false
	r.out.success("Saved")
	r.out.file(path)
	return nil
}

// node resolves ref as a node ID, then as a node code.
func (r *scriptRunner) node(ref string) (topo.Node, error) {
	if n, ok := r.s.Node(ref); ok {
		return n, nil
	}
	for _, n := range r.s.Nodes() {
		if n.Data.Code == ref && !n.IsTextbox() {
			return n, nil
		}
	}
	return topo.Node{}, errors.New(errors.ErrCodeNotFound, "no node %q", ref)
}

// edge resolves ref as an edge ID or "<from>-><to>".
func (r *scriptRunner) edge(ref string) (topo.Edge, error) {
	if e, ok := r.s.Edge(ref); ok {
		return e, nil
	}
	if from, to, ok := strings.Cut(ref, "->"); ok {
		src, err := r.node(from)
		if err != nil {
			return topo.Edge{}, err
		}
		dst, err := r.node(to)
		if err != nil {
			return topo.Edge{}, err
		}
		for _, e := range r.s.Edges() {
			if e.Source == src.ID && e.Target == dst.ID {
				return e, nil
			}
		}
	}
	return topo.Edge{}, errors.New(errors.ErrCodeNotFound, "no node or edge %q", ref)
}

// splitLine splits a script line into statements and each statement into
// shell-style words: quotes group words, backslashes escape and '#' starts a
// comment. A word ending in ';' ends its statement.
func splitLine(line string) ([][]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unbalanced quote or escape")
	}
	var stmts [][]string
	var args []string
	for _, w := range words {
		word, last := strings.CutSuffix(w, ";")
		if word != "" || !last {
			args = append(args, word)
		}
		if last && len(args) > 0 {
			stmts = append(stmts, args)
			args = nil
		}
	}
	if len(args) > 0 {
		stmts = append(stmts, args)
	}
	return stmts, nil
}
