package models

// Participant represents a person splitting the bill.
//
// Participants exist only within a session; there are no user accounts.
// Names are unique per session, compared case-insensitively.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name of the participant. Never empty.
	Name string

	// Color is the avatar color assigned at creation (hex string).
	Color string
}
