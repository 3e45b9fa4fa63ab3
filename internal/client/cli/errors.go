package cli

import "errors"

var (
	errNoProperty = errors.New("no property selected, run 'use <property-id>'")
	errNoRoom     = errors.New("no room selected, run 'room use <room-id>'")
)

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func errUsage(s string) error { return usageError(s) }
