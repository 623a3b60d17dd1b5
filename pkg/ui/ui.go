// Package ui renders command results in the format the user asked for:
// styled terminal output, plain text or JSON. It also provides the console
// prompter used to confirm risky install targets.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dotlink/pkg/commands"
	"github.com/arthur-debert/dotlink/pkg/commands/genconfig"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/ui/display"
	"github.com/arthur-debert/dotlink/pkg/ui/json"
	"github.com/arthur-debert/dotlink/pkg/ui/output"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result interface{}) error

	// RenderError renders a terminal failure
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format writing to w. FormatAuto
// inspects w when it is a file and falls back to plain text otherwise.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := w.(*os.File); ok {
			return NewRenderer(DetectFormat(file), w)
		}
		return NewRenderer(FormatText, w)
	case FormatTerminal, FormatText:
		r, err := output.NewRenderer(w, format == FormatText)
		if err != nil {
			return nil, err
		}
		return &templateRenderer{renderer: r, w: w}, nil
	case FormatJSON:
		return json.New(w), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// templateRenderer adapts output.Renderer to Renderer
type templateRenderer struct {
	renderer *output.Renderer
	w        io.Writer
}

func (r *templateRenderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *commands.DispatchResult:
		return r.renderer.Render(display.FromDispatch(v))
	case *display.Result:
		return r.renderer.Render(v)
	case *genconfig.Result:
		if v.Path != "" {
			return r.renderer.RenderMessage("Success", "Wrote "+v.Path)
		}
		_, err := io.WriteString(r.w, v.Content)
		return err
	default:
		_, err := fmt.Fprintf(r.w, "%+v\n", result)
		return err
	}
}

func (r *templateRenderer) RenderError(err error) error {
	return r.renderer.RenderError(err)
}

func (r *templateRenderer) RenderMessage(msg string) error {
	return r.renderer.RenderMessage("Info", msg)
}
