package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"mimic/internal/semantic"
)

// ModelOpts configures pretty output of extracted models.
type ModelOpts struct {
	Color bool
	// ShowOriginal appends the written type when resolution changed it.
	ShowOriginal bool
}

// FormatModelsJSON writes models in their wire form.
func FormatModelsJSON(w io.Writer, models []*semantic.Model) error {
	out := make([]semantic.ModelWire, len(models))
	for i, m := range models {
		out[i] = m.Wire()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

type modelPrinter struct {
	w        io.Writer
	keyword  *color.Color
	name     *color.Color
	dim      *color.Color
	original bool
}

// FormatModelsPretty prints each model as a declaration-like listing:
//
//	class Store: Codable
//	  init(id: Int) throws
//	  var items: [Item] { get set }
//	  func fetch(id: Int) async throws -> Item
func FormatModelsPretty(w io.Writer, models []*semantic.Model, opts ModelOpts) error {
	p := modelPrinter{
		w:        w,
		keyword:  color.New(color.FgMagenta),
		name:     color.New(color.Bold),
		dim:      color.New(color.Faint),
		original: opts.ShowOriginal,
	}
	for _, c := range []*color.Color{p.keyword, p.name, p.dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	for i, m := range models {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := p.model(m); err != nil {
			return err
		}
	}
	return nil
}

func (p modelPrinter) model(m *semantic.Model) error {
	head := p.keyword.Sprint(m.Kind) + " " + p.name.Sprint(m.Type)
	if len(m.Inherited) > 0 {
		names := make([]string, len(m.Inherited))
		for i, n := range m.Inherited {
			names[i] = orMissing(n)
		}
		head += ": " + strings.Join(names, ", ")
	}
	lines := []string{head}

	for _, in := range m.Initializers {
		name := "init"
		switch {
		case in.IsImplicitlyUnwrapped:
			name += "!"
		case in.IsFailable:
			name += "?"
		}
		lines = append(lines, "  "+p.keyword.Sprint(name)+p.params(in.Params)+effects(in.IsAsync, in.Throws))
	}
	for _, prop := range m.Properties {
		intro := "var"
		if prop.IsStatic {
			intro = "static " + intro
		}
		line := "  " + p.keyword.Sprint(intro) + " " + prop.Name
		if !semantic.IsNone(prop.Type) {
			line += ": " + prop.Type.String()
		}
		access := "{ get }"
		if prop.IsWritable {
			access = "{ get set }"
		}
		lines = append(lines, line+" "+p.dim.Sprint(access))
	}
	for _, fn := range m.Methods {
		intro := "func"
		if fn.IsStatic {
			intro = "static func"
		}
		line := "  " + p.keyword.Sprint(intro) + " " + fn.Name
		if len(fn.GenericParams) > 0 {
			line += "<" + strings.Join(fn.GenericParams, ", ") + ">"
		}
		line += p.params(fn.Params) + effects(fn.IsAsync, fn.Throws)
		if !semantic.IsNone(fn.Return.Resolved) {
			line += " -> " + p.resolved(fn.Return)
		}
		lines = append(lines, line)
	}

	_, err := io.WriteString(p.w, strings.Join(lines, "\n")+"\n")
	return err
}

func (p modelPrinter) params(ps []semantic.Parameter) string {
	parts := make([]string, len(ps))
	for i, prm := range ps {
		var b strings.Builder
		switch {
		case !prm.HasExternalName:
			b.WriteString("_ ")
		case prm.ExternalName != prm.InternalName:
			b.WriteString(prm.ExternalName + " ")
		}
		b.WriteString(prm.InternalName + ": ")
		if prm.IsEscaping {
			b.WriteString("@escaping ")
		}
		if prm.IsInout {
			b.WriteString("inout ")
		}
		b.WriteString(p.resolved(prm.Type))
		if prm.IsVariadic {
			b.WriteString("...")
		}
		if prm.HasDefault {
			b.WriteString(p.dim.Sprint(" = default"))
		}
		parts[i] = b.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p modelPrinter) resolved(rt semantic.ResolvedType) string {
	if rt.Resolved == nil {
		rt.Resolved = rt.Original
	}
	if rt.Resolved == nil {
		return ""
	}
	text := rt.Resolved.String()
	if p.original && !semantic.Equal(rt.Original, rt.Resolved) {
		text += p.dim.Sprintf(" /* %s */", rt.Original)
	}
	return text
}

func effects(async, throws bool) string {
	s := ""
	if async {
		s += " async"
	}
	if throws {
		s += " throws"
	}
	return s
}
