package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of birth dates.
const DateLayout = "2006-01-02"

type Resident struct {
	ResidentID       string // R-<year><seq>, immutable
	FirstName        string
	LastName         string
	Gender           Gender
	BirthDate        time.Time // date only, UTC midnight
	Address          string
	ContactNumber    string
	FamilyHeadID     string // empty when the resident has no family head
	RegistrationDate time.Time
	UpdatedAt        time.Time
	QRCode           string // cached PNG data URL, empty until generated
}

// FullName is "<first> <last>", the name carried by the QR artifact.
func (r Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender accepts any casing and returns the canonical value.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	case "other":
		return GenderOther, true
	}
	return "", false
}
