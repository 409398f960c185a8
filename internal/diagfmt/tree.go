package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mimic/internal/ast"
	"mimic/internal/source"
)

// TreeNodeJSON is one node of the JSON tree dump. Offset and Length are in
// UTF-16 code units.
type TreeNodeJSON struct {
	Kind     string         `json:"kind"`
	Offset   uint32         `json:"offset"`
	Length   uint32         `json:"length"`
	Fields   map[string]any `json:"fields,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []TreeNodeJSON `json:"children,omitempty"`
}

// FormatTreePretty prints the tree rooted at file, one node per line:
//
//	File Store.swift @0+120
//	└─ TypeDecl class Store: Codable @0+120
//	   ├─ InheritedType Codable @12+7
//	   └─ VarDecl var items @24+18
func FormatTreePretty(w io.Writer, file *ast.File, fs *source.FileSet) error {
	if file == nil {
		return fmt.Errorf("file not found")
	}
	header := "File"
	if src := file.Source(); src != nil {
		baseDir := ""
		if fs != nil {
			baseDir = fs.BaseDir()
		}
		header += " " + src.DisplayPath(baseDir)
	}
	root := file.Node()
	if _, err := fmt.Fprintf(w, "%s @%d+%d\n", header, root.Offset(), root.Length()); err != nil {
		return err
	}
	return printChildren(w, root, "")
}

func printChildren(w io.Writer, n ast.Node, prefix string) error {
	kids := n.Children()
	for i, c := range kids {
		branch, next := "├─ ", "│  "
		if i == len(kids)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s @%d+%d\n", prefix, branch, nodeLabel(c), c.Offset(), c.Length()); err != nil {
			return err
		}
		if err := printChildren(w, c, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func nodeLabel(n ast.Node) string {
	kind := n.Kind().String()
	switch n.Kind() {
	case ast.KindTypeDecl:
		d := ast.TypeDecl{Node: n}
		label := kind + " " + d.DeclKind().String() + " " + orMissing(d.Name())
		if gp := d.GenericParams(); len(gp) > 0 {
			label += "<" + strings.Join(gp, ", ") + ">"
		}
		if inh := d.Inherited(); len(inh) > 0 {
			names := make([]string, len(inh))
			for i, it := range inh {
				names[i] = orMissing(it.Name())
			}
			label += ": " + strings.Join(names, ", ")
		}
		if !d.HasBody() {
			label += " (no body)"
		}
		return label
	case ast.KindFuncDecl:
		d := ast.FuncDecl{Node: n}
		return kind + " " + orMissing(d.Name()) + flags(d.IsStatic(), "static", d.IsAsync(), "async", d.Throws(), "throws")
	case ast.KindVarDecl:
		d := ast.VarDecl{Node: n}
		intro := "var"
		if d.IsLet() {
			intro = "let"
		}
		return kind + " " + intro + " " + orMissing(d.Name()) + flags(d.IsStatic(), "static", d.IsWritable(), "writable")
	case ast.KindInitDecl:
		d := ast.InitDecl{Node: n}
		name := "init"
		switch {
		case d.IsImplicitlyUnwrapped():
			name += "!"
		case d.IsFailable():
			name += "?"
		}
		return kind + " " + name + flags(d.IsAsync(), "async", d.Throws(), "throws")
	case ast.KindParam:
		p := ast.Param{Node: n}
		ext := "_"
		if p.HasExternalName() {
			ext = p.ExternalName()
		}
		return kind + " " + ext + " " + orMissing(p.InternalName()) +
			flags(p.IsInout(), "inout", p.IsVariadic(), "variadic", p.HasDefault(), "default", p.IsEscaping(), "escaping")
	case ast.KindTypeAlias:
		a := ast.TypeAlias{Node: n}
		intro := "typealias"
		if a.IsAssociated() {
			intro = "associatedtype"
		}
		return kind + " " + intro + " " + orMissing(a.Name())
	case ast.KindInheritedType:
		return kind + " " + orMissing(n.Text())
	}
	if ast.TypeOf(n) != nil {
		return kind + " " + n.Text()
	}
	return kind
}

func orMissing(s string) string {
	if s == "" {
		return "<missing>"
	}
	return s
}

// flags renders the names whose condition holds, as in "[static, throws]".
func flags(pairs ...any) string {
	var set []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if on, _ := pairs[i].(bool); on {
			set = append(set, pairs[i+1].(string))
		}
	}
	if len(set) == 0 {
		return ""
	}
	return " [" + strings.Join(set, ", ") + "]"
}

// BuildTree converts the subtree rooted at n into its JSON shape.
func BuildTree(n ast.Node) TreeNodeJSON {
	out := TreeNodeJSON{
		Kind:   n.Kind().String(),
		Offset: n.Offset(),
		Length: n.Length(),
		Fields: nodeFields(n),
	}
	if ast.TypeOf(n) != nil || n.Kind() == ast.KindInheritedType {
		out.Text = n.Text()
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, BuildTree(c))
	}
	return out
}

func nodeFields(n ast.Node) map[string]any {
	f := map[string]any{}
	switch n.Kind() {
	case ast.KindTypeDecl:
		d := ast.TypeDecl{Node: n}
		f["name"], f["declKind"] = d.Name(), d.DeclKind().String()
		if gp := d.GenericParams(); len(gp) > 0 {
			f["genericParams"] = gp
		}
		var inh []string
		for _, it := range d.Inherited() {
			inh = append(inh, it.Name())
		}
		if len(inh) > 0 {
			f["inherited"] = inh
		}
		f["bodyOffset"], f["bodyLength"] = d.BodyOffset(), d.BodyLength()
	case ast.KindFuncDecl:
		d := ast.FuncDecl{Node: n}
		f["name"] = d.Name()
		setTrue(f, "static", d.IsStatic())
		setTrue(f, "async", d.IsAsync())
		setTrue(f, "throws", d.Throws())
	case ast.KindVarDecl:
		d := ast.VarDecl{Node: n}
		f["name"], f["let"], f["writable"] = d.Name(), d.IsLet(), d.IsWritable()
		setTrue(f, "static", d.IsStatic())
	case ast.KindInitDecl:
		d := ast.InitDecl{Node: n}
		setTrue(f, "failable", d.IsFailable())
		setTrue(f, "implicitlyUnwrapped", d.IsImplicitlyUnwrapped())
		setTrue(f, "throws", d.Throws())
		setTrue(f, "async", d.IsAsync())
	case ast.KindParam:
		p := ast.Param{Node: n}
		if p.HasExternalName() {
			f["externalName"] = p.ExternalName()
		}
		f["internalName"] = p.InternalName()
		setTrue(f, "inout", p.IsInout())
		setTrue(f, "variadic", p.IsVariadic())
		setTrue(f, "hasDefault", p.HasDefault())
		setTrue(f, "escaping", p.IsEscaping())
	case ast.KindTypeAlias:
		a := ast.TypeAlias{Node: n}
		f["name"] = a.Name()
		setTrue(f, "associated", a.IsAssociated())
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

func setTrue(f map[string]any, key string, v bool) {
	if v {
		f[key] = true
	}
}

// FormatTreeJSON writes the JSON tree of file.
func FormatTreeJSON(w io.Writer, file *ast.File) error {
	if file == nil {
		return fmt.Errorf("file not found")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTree(file.Node()))
}
