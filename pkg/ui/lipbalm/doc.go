/*
Package lipbalm expands XML-like style tags into lipgloss styling.

Templates mark text with semantic tags whose names are keys of a StyleMap:

	<Success>linked</Success> <Path>~/.zshrc</Path>

ExpandTags applies the styles when the default renderer supports color and
drops them otherwise. StripTags removes every tag for plain output. Render
runs a text/template first and then expands the tags.

The <no-format> tag is only rendered when color is unavailable:

	<Success>ok</Success><no-format> [ok]</no-format>

Input that is not well-formed markup, such as a bare "&" or "<", is returned
unchanged. Escape those characters with Escape before placing them
inside tags.
*/
package lipbalm
