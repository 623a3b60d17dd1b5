package lipbalm

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// StyleMap maps tag names to styles
type StyleMap map[string]lipgloss.Style

const noFormatTag = "no-format"

var (
	mu              sync.RWMutex
	defaultRenderer = lipgloss.DefaultRenderer()
)

// SetDefaultRenderer sets the renderer whose color profile decides whether
// styles are applied
func SetDefaultRenderer(r *lipgloss.Renderer) {
	mu.Lock()
	defer mu.Unlock()
	defaultRenderer = r
}

func colorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return defaultRenderer.ColorProfile() != termenv.Ascii
}

// Render executes tmpl with data and expands the style tags in the result
func Render(tmpl string, data interface{}, styles StyleMap) (string, error) {
	t, err := template.New("lipbalm").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return ExpandTags(buf.String(), styles)
}

// ExpandTags replaces style tags with ANSI styling. Input that is not
// well-formed markup is returned unchanged.
func ExpandTags(input string, styles StyleMap) (string, error) {
	if input == "" {
		return "", nil
	}
	root, err := parse(input)
	if err != nil {
		return input, nil
	}

	var sb strings.Builder
	root.render(&sb, styles, colorEnabled())
	return sb.String(), nil
}

// StripTags removes every tag, keeping the text. Input that is not
// well-formed markup is returned unchanged.
func StripTags(input string) string {
	if input == "" {
		return ""
	}
	root, err := parse(input)
	if err != nil {
		return input
	}
	var sb strings.Builder
	root.render(&sb, nil, false)
	return sb.String()
}

type node struct {
	name     string
	text     string
	children []*node
}

func parse(input string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader("<lipbalm>" + input + "</lipbalm>"))
	dec.Strict = true

	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, &node{text: string(t)})
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}

func (n *node) render(sb *strings.Builder, styles StyleMap, color bool) {
	if n.name == "" {
		sb.WriteString(n.text)
		return
	}
	if n.name == noFormatTag && color {
		return
	}

	var inner strings.Builder
	for _, c := range n.children {
		c.render(&inner, styles, color)
	}

	if style, ok := styles[n.name]; ok && color {
		sb.WriteString(style.Render(inner.String()))
		return
	}
	sb.WriteString(inner.String())
}

// Escape makes s safe to place inside tags
func Escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
