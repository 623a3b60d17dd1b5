package display

import (
	stderrors "errors"

	"github.com/arthur-debert/dotlink/pkg/errors"
)

// ErrorText returns the message of err and its causes without the code
// prefixes coded errors carry
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var de *errors.DotlinkError
	if stderrors.As(err, &de) {
		if de.Wrapped != nil {
			return de.Message + ": " + ErrorText(de.Wrapped)
		}
		return de.Message
	}
	return err.Error()
}
