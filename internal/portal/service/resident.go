package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

// ResidentInput is the writable part of a resident as submitted by a client.
type ResidentInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Gender        string `json:"gender" validate:"required,gender"`
	BirthDate     string `json:"birthDate" validate:"required,date"`
	Address       string `json:"address" validate:"required"`
	ContactNumber string `json:"contactNumber"`
	FamilyHeadID  string `json:"familyHeadId"`
}

func (in *ResidentInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.FamilyHeadID = strings.TrimSpace(in.FamilyHeadID)
}

var (
	createMessages = messages{
		"firstName.required": "First name is required",
		"lastName.required":  "Last name is required",
		"gender.required":    "Gender is required",
		"gender.gender":      "Gender must be Male, Female or Other",
		"birthDate.required": "Birth date is required",
		"birthDate.date":     "Birth date is required",
		"address.required":   "Address is required",
	}
	updateMessages = messages{
		"firstName.required": "First name is required",
		"lastName.required":  "Last name is required",
		"gender.required":    "Gender is required",
		"gender.gender":      "Gender must be Male, Female or Other",
		"birthDate.required": "Valid birth date is required",
		"birthDate.date":     "Valid birth date is required",
		"address.required":   "Address is required",
	}
)

// validateInput checks in and returns the parsed birth date.
func validateInput(in ResidentInput, msgs messages, now time.Time) (time.Time, error) {
	if err := check(in, msgs); err != nil {
		return time.Time{}, err
	}
	birth, err := parseDate(in.BirthDate)
	if err != nil {
		return time.Time{}, fieldError("birthDate", msgs["birthDate.date"])
	}
	if birth.After(now) {
		return time.Time{}, fieldError("birthDate", "Birth date cannot be in the future")
	}
	return birth, nil
}

type ResidentService struct {
	Store   store.Store
	Gate    *Gate
	IDs     *IDAllocator
	QR      *QRGenerator
	Now     func() time.Time
	Metrics *metrics.Metrics
}

func (s *ResidentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResidentService) get(ctx context.Context, id string) (domain.Resident, error) {
	r, err := s.Store.Residents().GetResident(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Resident{}, ErrResidentNotFound
	}
	if err != nil {
		return domain.Resident{}, fmt.Errorf("get resident %s: %w", id, err)
	}
	return r, nil
}

// List returns every resident. The cached QR artifact is stripped.
func (s *ResidentService) List(ctx context.Context, p domain.Principal) ([]domain.Resident, error) {
	if err := s.Gate.Check(ctx, p, "", OpList); err != nil {
		return nil, err
	}

	rs, err := s.Store.Residents().ListResidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	for i := range rs {
		rs[i].QRCode = ""
	}
	return rs, nil
}

// Get returns one resident without its QR artifact.
func (s *ResidentService) Get(ctx context.Context, p domain.Principal, id string) (domain.Resident, error) {
	if err := s.Gate.Check(ctx, p, id, OpRead); err != nil {
		return domain.Resident{}, err
	}

	r, err := s.get(ctx, id)
	if err != nil {
		return domain.Resident{}, err
	}
	r.QRCode = ""
	return r, nil
}

// QRCode returns the resident's artifact, generating it on first use.
func (s *ResidentService) QRCode(ctx context.Context, p domain.Principal, id string) (string, error) {
	if err := s.Gate.Check(ctx, p, id, OpQR); err != nil {
		return "", err
	}

	r, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}

	code, err := s.QR.Get(ctx, r)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the read and the write.
		return "", ErrResidentNotFound
	}
	return code, err
}

// Create registers a new resident and tries to render its QR artifact. A
// rendering failure does not fail the create.
func (s *ResidentService) Create(ctx context.Context, p domain.Principal, in ResidentInput) (domain.Resident, error) {
	l := slogx.FromContext(ctx)

	if err := s.Gate.Check(ctx, p, "", OpCreate); err != nil {
		return domain.Resident{}, err
	}

	now := s.now()
	in.normalize()
	birth, err := validateInput(in, createMessages, now)
	if err != nil {
		return domain.Resident{}, err
	}

	address, err := ResolveAddress(ctx, s.Store, in.FamilyHeadID, in.Address)
	if err != nil {
		return domain.Resident{}, err
	}

	gender, _ := domain.ParseGender(in.Gender)
	r := domain.Resident{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Gender:           gender,
		BirthDate:        birth,
		Address:          address,
		ContactNumber:    in.ContactNumber,
		FamilyHeadID:     in.FamilyHeadID,
		RegistrationDate: now,
		UpdatedAt:        now,
	}

	id, err := s.IDs.Allocate(ctx, ResidentPrefix, residentCounter, func(id string) error {
		r.ResidentID = id
		return s.Store.Residents().CreateResident(ctx, r)
	})
	if err != nil {
		return domain.Resident{}, fmt.Errorf("create resident: %w", err)
	}
	r.ResidentID = id
	s.Metrics.IncResidentsCreated()

	if _, err := s.QR.Get(ctx, r); err != nil {
		l.Warn("qr code generation deferred",
			slog.String("resident_id", id),
			slog.Any("error", err),
		)
	}

	slogx.Audit(ctx, "resident created",
		slog.String("user_id", p.UserID),
		slog.String("resident_id", id),
	)
	return r, nil
}

// Update rewrites the mutable fields of a resident. The id, registration
// date and QR artifact are preserved.
func (s *ResidentService) Update(ctx context.Context, p domain.Principal, id string, in ResidentInput) (domain.Resident, error) {
	if err := s.Gate.Check(ctx, p, id, OpUpdate); err != nil {
		return domain.Resident{}, err
	}

	now := s.now()
	in.normalize()
	birth, err := validateInput(in, updateMessages, now)
	if err != nil {
		return domain.Resident{}, err
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return domain.Resident{}, err
	}

	address, err := ResolveAddress(ctx, s.Store, in.FamilyHeadID, in.Address)
	if err != nil {
		return domain.Resident{}, err
	}

	gender, _ := domain.ParseGender(in.Gender)
	r := current
	r.FirstName = in.FirstName
	r.LastName = in.LastName
	r.Gender = gender
	r.BirthDate = birth
	r.Address = address
	r.ContactNumber = in.ContactNumber
	r.FamilyHeadID = in.FamilyHeadID
	r.UpdatedAt = now

	err = s.Store.Residents().UpdateResident(ctx, r)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Resident{}, ErrResidentNotFound
	}
	if err != nil {
		return domain.Resident{}, fmt.Errorf("update resident %s: %w", id, err)
	}

	r.QRCode = ""
	return r, nil
}

func (s *ResidentService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := s.Gate.Check(ctx, p, id, OpDelete); err != nil {
		return err
	}

	err := s.Store.Residents().DeleteResident(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrResidentNotFound
	}
	if err != nil {
		return fmt.Errorf("delete resident %s: %w", id, err)
	}

	slogx.Audit(ctx, "resident deleted",
		slog.String("user_id", p.UserID),
		slog.String("resident_id", id),
	)
	return nil
}
