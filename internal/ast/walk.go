package ast

// Children returns the direct children of id in source order.
// Holes in array literals and absent optional parts are skipped.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}

	switch n.Kind.shape() {
	case shapeList:
		add(t.List(id).Items...)
	case shapeProperty:
		d := t.Property(id)
		switch {
		case d.Shorthand && d.Value.IsValid():
			add(d.Value)
		case d.Shorthand:
			add(d.Key)
		default:
			add(d.Key, d.Value)
		}
	case shapeAssign:
		d := t.Assign(id)
		add(d.Left, d.Right)
	case shapeBinary:
		d := t.Binary(id)
		add(d.Left, d.Right)
	case shapeUnary:
		add(t.Unary(id).Arg)
	case shapeWrap:
		add(t.Wrap(id).Inner)
	case shapePair:
		d := t.Pair(id)
		add(d.A, d.B)
	case shapeCall:
		d := t.Call(id)
		add(d.Callee)
		add(d.Args...)
	case shapeMember:
		d := t.Member(id)
		add(d.Object, d.Property)
	case shapeCond:
		d := t.Cond(id)
		add(d.Test, d.Cons, d.Alt)
	case shapeFunc:
		d := t.Func(id)
		add(d.ID)
		add(d.Params...)
		add(d.Body)
	case shapeClass:
		d := t.Class(id)
		add(d.ID, d.Super, d.Body)
	case shapeVarDecl:
		add(t.VarDecl(id).Decls...)
	case shapeLoop:
		d := t.Loop(id)
		add(d.Init, d.Test, d.Update, d.Body)
	case shapeTry:
		d := t.Try(id)
		add(d.Block, d.Handler, d.Finalizer)
	case shapeSwitch:
		d := t.Switch(id)
		add(d.Head)
		add(d.Items...)
	case shapeModule:
		d := t.Module(id)
		add(d.Decl)
		add(d.Specifiers...)
		add(d.Source)
	}
	return out
}

// Visitor receives nodes during Walk. Enter returning false skips the
// subtree (Leave is still called for that node).
type Visitor interface {
	Enter(id NodeID) bool
	Leave(id NodeID)
}

// Walk traverses the subtree rooted at id depth-first in source order.
func (t *Tree) Walk(id NodeID, v Visitor) {
	if !id.IsValid() {
		return
	}
	if v.Enter(id) {
		for _, c := range t.Children(id) {
			t.Walk(c, v)
		}
	}
	v.Leave(id)
}

type inspector func(NodeID) bool

func (f inspector) Enter(id NodeID) bool { return f(id) }
func (f inspector) Leave(NodeID)         {}

// Inspect calls fn for every node in pre-order; returning false prunes.
func (t *Tree) Inspect(id NodeID, fn func(NodeID) bool) {
	t.Walk(id, inspector(fn))
}

// Parents maps every node reachable from Root to its parent.
func (t *Tree) Parents() []NodeID {
	parents := make([]NodeID, t.Len()+1)
	var visit func(id NodeID)
	visit = func(id NodeID) {
		for _, c := range t.Children(id) {
			parents[c] = id
			visit(c)
		}
	}
	visit(t.Root)
	return parents
}
