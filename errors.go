package tabler

import "errors"

var (
	// ErrInvalidSpec is returned when a column spec
	// has neither an ID, a Field nor a Name.
	ErrInvalidSpec = errors.New("invalid column spec")

	// ErrDuplicateID is returned when a column spec ID
	// is already used within the registry or the added batch.
	ErrDuplicateID = errors.New("duplicate column spec ID")

	// ErrMissingDependency is returned by Plugin.Attach
	// when a plugin that must be attached before is absent.
	ErrMissingDependency = errors.New("missing plugin dependency")

	// ErrMissingFetchData is returned when a fetch response
	// carries no items.
	ErrMissingFetchData = errors.New("fetch response has no items")

	// ErrUnmatchedArgument is returned for a nil Matcher.
	ErrUnmatchedArgument = errors.New("unmatched argument")

	ErrDuplicatePlugin    = errors.New("plugin already attached")
	ErrRowIndexOutOfRange = errors.New("row index out of range")
	ErrInvalidOptions     = errors.New("invalid options")
)
