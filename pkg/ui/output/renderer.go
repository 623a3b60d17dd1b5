package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/ui/display"
	"github.com/arthur-debert/dotlink/pkg/ui/lipbalm"
	"github.com/arthur-debert/dotlink/pkg/ui/styles"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer runs display results through the templates and styles them
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
}

// NewRenderer creates a Renderer writing to w. With noColor every style tag
// is stripped; otherwise styling follows what w supports.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	if !noColor {
		renderer := lipgloss.NewRenderer(w)
		lipbalm.SetDefaultRenderer(renderer)
		log.Debug().
			Str("colorProfile", fmt.Sprintf("%v", renderer.ColorProfile())).
			Str("NO_COLOR_env", os.Getenv("NO_COLOR")).
			Msg("Lipgloss renderer created")
	}

	tmpl, err := template.New("output").
		Funcs(template.FuncMap{"esc": lipbalm.Escape}).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl, writer: w, noColor: noColor}, nil
}

// Render writes result
func (r *Renderer) Render(result *display.Result) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "result.tmpl", result); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return r.write(buf.String())
}

// RenderError writes err as a one-line cause
func (r *Renderer) RenderError(err error) error {
	return r.write("<Error>Error:</Error> " + lipbalm.Escape(display.ErrorText(err)) + "\n")
}

// RenderMessage writes message in the named style
func (r *Renderer) RenderMessage(style, message string) error {
	return r.write(fmt.Sprintf("<%s>%s</%s>\n", style, lipbalm.Escape(message), style))
}

func (r *Renderer) write(tagged string) error {
	var out string
	if r.noColor {
		out = lipbalm.StripTags(tagged)
	} else {
		var err error
		out, err = lipbalm.ExpandTags(tagged, styles.Registry)
		if err != nil {
			return fmt.Errorf("failed to expand tags: %w", err)
		}
	}
	_, err := io.WriteString(r.writer, out)
	return err
}
