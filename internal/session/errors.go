package session

import "errors"

// The error taxonomy of an extraction run. All are terminal for the
// current operation; nothing is retried internally, and a retry is a
// fresh caller-initiated invocation.
var (
	ErrPanelNotFound  = errors.New("could not open group info panel")
	ErrNoParticipants = errors.New("no participants found in group info")
	ErrNoContacts     = errors.New("no contacts found")
	ErrNoScan         = errors.New("no scanned contacts cached; run a scan first")
)
