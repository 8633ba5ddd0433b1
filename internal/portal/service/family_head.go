package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

type FamilyHeadInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Address       string `json:"address" validate:"required"`
	ContactNumber string `json:"contactNumber"`
}

var familyHeadMessages = messages{
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"address.required":   "Address is required",
}

// FamilyHeadService manages household heads. Callers are admins; the HTTP
// layer enforces the role.
type FamilyHeadService struct {
	Store store.Store
	IDs   *IDAllocator
	Now   func() time.Time
}

func (s *FamilyHeadService) List(ctx context.Context) ([]domain.FamilyHead, error) {
	hs, err := s.Store.FamilyHeads().ListFamilyHeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list family heads: %w", err)
	}
	return hs, nil
}

func (s *FamilyHeadService) Get(ctx context.Context, id string) (domain.FamilyHead, error) {
	h, err := s.Store.FamilyHeads().GetFamilyHead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.FamilyHead{}, ErrFamilyHeadNotFound
	}
	if err != nil {
		return domain.FamilyHead{}, fmt.Errorf("get family head %s: %w", id, err)
	}
	return h, nil
}

func (s *FamilyHeadService) Create(ctx context.Context, in FamilyHeadInput) (domain.FamilyHead, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)

	if err := check(in, familyHeadMessages); err != nil {
		return domain.FamilyHead{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	h := domain.FamilyHead{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Address:          in.Address,
		ContactNumber:    in.ContactNumber,
		RegistrationDate: now().UTC(),
	}

	id, err := s.IDs.Allocate(ctx, FamilyHeadPrefix, familyHeadCounter, func(id string) error {
		h.HeadID = id
		return s.Store.FamilyHeads().CreateFamilyHead(ctx, h)
	})
	if err != nil {
		return domain.FamilyHead{}, fmt.Errorf("create family head: %w", err)
	}
	h.HeadID = id

	slogx.FromContext(ctx).Info("family head created", slog.String("head_id", id))
	return h, nil
}

// Delete removes a head that no resident links to any more.
func (s *FamilyHeadService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.Store.Residents().CountByFamilyHead(ctx, id)
	if err != nil {
		return fmt.Errorf("count members of %s: %w", id, err)
	}
	if n > 0 {
		return ErrFamilyHeadInUse
	}

	err = s.Store.FamilyHeads().DeleteFamilyHead(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrFamilyHeadNotFound
	case err != nil:
		return fmt.Errorf("delete family head %s: %w", id, err)
	}
	return nil
}
