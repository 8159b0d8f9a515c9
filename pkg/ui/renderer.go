// Package ui renders bundling results for humans and machines.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/exepack/pkg/bundle"
	"github.com/arthur-debert/exepack/pkg/closure"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Renderer writes results in one output format
type Renderer interface {
	RenderBundle(b *bundle.Bundle) error
	RenderClosure(r *closure.Result) error
	RenderError(err error) error
}

// New creates a renderer for a concrete (non-auto) format
func New(w io.Writer, f Format) Renderer {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return &structuredRenderer{w: w, format: f}
	case FormatTerminal:
		return &humanRenderer{w: w, styled: true}
	default:
		return &humanRenderer{w: w}
	}
}

// structuredRenderer marshals results as JSON, YAML or TOML
type structuredRenderer struct {
	w      io.Writer
	format Format
}

func (r *structuredRenderer) RenderBundle(b *bundle.Bundle) error {
	return r.encode(b)
}

func (r *structuredRenderer) RenderClosure(res *closure.Result) error {
	return r.encode(res)
}

func (r *structuredRenderer) RenderError(err error) error {
	out := struct {
		Error   string                 `json:"error" yaml:"error" toml:"error"`
		Code    string                 `json:"code" yaml:"code" toml:"code"`
		Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`
	}{
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	}
	return r.encode(out)
}

func (r *structuredRenderer) encode(v interface{}) error {
	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(r.w).Encode(v)
	default:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// humanRenderer prints aligned text, optionally styled with lipgloss
type humanRenderer struct {
	w      io.Writer
	styled bool
}

func (r *humanRenderer) style(s string, st interface{ Render(...string) string }) string {
	if !r.styled {
		return s
	}
	return st.Render(s)
}

func (r *humanRenderer) RenderBundle(b *bundle.Bundle) error {
	var out strings.Builder

	indicator := "ok"
	if r.styled {
		indicator = SuccessIndicator
	}
	fmt.Fprintf(&out, "%s %s %s\n", indicator,
		r.style("Bundled "+b.Name+" into", TitleStyle),
		r.style(b.Root, PathStyle))

	r.field(&out, "launcher", b.Launcher)
	r.field(&out, "executable", b.OriginalExecutable)
	r.field(&out, "lib", b.Lib)

	if b.Closure != nil {
		r.entries(&out, b.Closure)
	}

	_, err := io.WriteString(r.w, out.String())
	return err
}

func (r *humanRenderer) RenderClosure(res *closure.Result) error {
	var out strings.Builder

	fmt.Fprintf(&out, "%s %s\n", r.style("Dependency closure of", TitleStyle), r.style(res.Root, PathStyle))
	r.entries(&out, res)

	_, err := io.WriteString(r.w, out.String())
	return err
}

func (r *humanRenderer) RenderError(err error) error {
	line := "Error: " + err.Error()
	if r.styled {
		line = ErrorIndicator + " " + ErrorStyle.Render(line)
	}
	_, werr := fmt.Fprintln(r.w, line)
	return werr
}

func (r *humanRenderer) field(out *strings.Builder, label, value string) {
	if r.styled {
		fmt.Fprintf(out, "  %s%s\n", LabelStyle.Render(label), PathStyle.Render(value))
		return
	}
	fmt.Fprintf(out, "  %-12s%s\n", label, value)
}

func (r *humanRenderer) entries(out *strings.Builder, res *closure.Result) {
	if len(res.Entries) == 0 {
		fmt.Fprintf(out, "  %s\n", r.style("no shared library dependencies", MutedStyle))
		return
	}

	fmt.Fprintf(out, "  %s\n", r.style(fmt.Sprintf("%d libraries", len(res.Entries)), TitleStyle))

	width := 0
	for _, e := range res.Entries {
		if n := len(e.Name) + 2*(e.Depth-1); n > width {
			width = n
		}
	}
	for _, e := range res.Entries {
		name := strings.Repeat("  ", e.Depth-1) + e.Name
		padding := strings.Repeat(" ", width-len(name))
		fmt.Fprintf(out, "    %s%s  %s %s\n",
			r.style(name, LibraryStyle), padding,
			r.style("<-", MutedStyle), r.style(e.Source, PathStyle))
	}
}
