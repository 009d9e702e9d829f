package diagfmt

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"valign/internal/ast"
	"valign/internal/source"
)

// ASTNodeOutput is the JSON form of one syntax node.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// nodeFields returns the scalar payload of id: names, raw literals,
// operators and property flags.
func nodeFields(tree *ast.Tree, id ast.NodeID) map[string]any {
	fields := map[string]any{}
	if d := tree.Ident(id); d != nil {
		fields["name"] = d.Name
	}
	if d := tree.Literal(id); d != nil {
		fields["raw"] = d.Raw
	}
	if d := tree.Assign(id); d != nil {
		fields["op"] = d.Op.String()
	}
	if d := tree.Binary(id); d != nil {
		fields["op"] = d.Op.String()
	}
	if d := tree.Unary(id); d != nil {
		fields["op"] = d.Op.String()
		fields["prefix"] = d.Prefix
	}
	if d := tree.Property(id); d != nil {
		fields["kind"] = d.Kind.String()
		for name, set := range map[string]bool{"computed": d.Computed, "shorthand": d.Shorthand, "method": d.Method, "static": d.Static} {
			if set {
				fields[name] = true
			}
		}
	}
	if d := tree.VarDecl(id); d != nil {
		fields["kind"] = d.Kind.String()
	}
	if d := tree.Func(id); d != nil {
		if d.Async {
			fields["async"] = true
		}
		if d.Generator {
			fields["generator"] = true
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("%d-%d", span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

func prettyLabel(tree *ast.Tree, id ast.NodeID, fs *source.FileSet) string {
	var b strings.Builder
	b.WriteString(tree.Kind(id).String())
	if d := tree.Ident(id); d != nil {
		fmt.Fprintf(&b, " %s", d.Name)
	}
	if d := tree.Literal(id); d != nil {
		fmt.Fprintf(&b, " %s", d.Raw)
	}
	if d := tree.Assign(id); d != nil {
		fmt.Fprintf(&b, " (%s)", d.Op)
	}
	if d := tree.Property(id); d != nil && d.Shorthand {
		b.WriteString(" (shorthand)")
	}
	fmt.Fprintf(&b, " [%s]", formatSpan(tree.Span(id), fs))
	return b.String()
}

// FormatASTPretty prints the tree with box-drawing guides.
func FormatASTPretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	if tree == nil || !tree.Root.IsValid() {
		return fmt.Errorf("empty syntax tree")
	}
	path := "<unknown>"
	if fs != nil {
		if f := fs.Get(tree.File); f != nil {
			path = f.Path
		}
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", path, prettyLabel(tree, tree.Root, fs)); err != nil {
		return err
	}
	return writeChildrenPretty(w, tree, tree.Root, fs, "")
}

func writeChildrenPretty(w io.Writer, tree *ast.Tree, id ast.NodeID, fs *source.FileSet, prefix string) error {
	children := tree.Children(id)
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, prettyLabel(tree, c, fs)); err != nil {
			return err
		}
		if err := writeChildrenPretty(w, tree, c, fs, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// BuildASTOutput converts the subtree rooted at id.
func BuildASTOutput(tree *ast.Tree, id ast.NodeID) ASTNodeOutput {
	out := ASTNodeOutput{
		Type:   tree.Kind(id).String(),
		Span:   tree.Span(id),
		Fields: nodeFields(tree, id),
	}
	for _, c := range tree.Children(id) {
		out.Children = append(out.Children, BuildASTOutput(tree, c))
	}
	return out
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	if tree == nil || !tree.Root.IsValid() {
		return fmt.Errorf("empty syntax tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTOutput(tree, tree.Root))
}
