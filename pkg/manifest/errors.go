package manifest

import (
	"github.com/arthur-debert/dotlink/pkg/errors"
)

// Cause identifies which manifest rule was broken
type Cause string

const (
	CauseUnreadable      Cause = "unreadable"
	CauseSyntax          Cause = "syntax"
	CauseNotObject       Cause = "not_object"
	CauseMissingDotfiles Cause = "missing_dotfiles"
	CauseDotfilesNotList Cause = "dotfiles_not_list"
	CauseEntryNotObject  Cause = "entry_not_object"
	CauseMissingKey      Cause = "missing_key"
	CauseUnknownKey      Cause = "unknown_key"
	CauseNotString       Cause = "not_string"
	CauseInvalidType     Cause = "invalid_type"
)

const (
	detailCause = "cause"
	detailIndex = "index"
	detailKey   = "key"
	detailPath  = "path"
)

// CauseOf returns the Cause attached to a manifest error, or "" if err did
// not come from this package
func CauseOf(err error) Cause {
	v, ok := errors.GetDetail(err, detailCause)
	if !ok {
		return ""
	}
	c, _ := v.(Cause)
	return c
}

// IndexOf returns the entry index a manifest error refers to, or -1
func IndexOf(err error) int {
	v, ok := errors.GetDetail(err, detailIndex)
	if !ok {
		return -1
	}
	i, ok := v.(int)
	if !ok {
		return -1
	}
	return i
}

func invalid(cause Cause, format string, args ...interface{}) *errors.DotlinkError {
	return errors.Newf(errors.ErrConfigInvalid, format, args...).WithDetail(detailCause, cause)
}

func entryInvalid(cause Cause, index int, key string, format string, args ...interface{}) *errors.DotlinkError {
	err := invalid(cause, format, args...).WithDetail(detailIndex, index)
	if key != "" {
		err.WithDetail(detailKey, key)
	}
	return err
}
