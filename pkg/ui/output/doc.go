// Package output renders display results for people.
//
// Rendering has two phases. Go templates under templates/ turn a
// display.Result into text marked with style tags such as
// <Success>linked</Success>. Lipbalm then expands the tags into ANSI
// styling from the styles registry, or strips them for plain text.
//
//	renderer, err := output.NewRenderer(os.Stdout, false)
//	if err != nil {
//	    return err
//	}
//	return renderer.Render(display.FromDispatch(result))
//
// Anything interpolated into a template goes through the esc function so
// paths containing "&" or "<" cannot break the markup.
package output
