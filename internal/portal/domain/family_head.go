package domain

import "time"

// FamilyHead anchors a household address. Residents linked to a head take
// the head's address.
type FamilyHead struct {
	HeadID           string // F-<year><seq>
	FirstName        string
	LastName         string
	Address          string
	ContactNumber    string
	RegistrationDate time.Time
}
