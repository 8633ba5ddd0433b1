package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/barangay/internal/portal/store"
)

const msgFamilyHeadMissing = "Family head does not exist"

// ResolveAddress returns the address a resident should be stored with. A
// linked family head's address always wins over the submitted one.
func ResolveAddress(ctx context.Context, s store.Store, familyHeadID, address string) (string, error) {
	if familyHeadID == "" {
		if address == "" {
			return "", fieldError("address", "Address is required")
		}
		return address, nil
	}

	head, err := s.FamilyHeads().GetFamilyHead(ctx, familyHeadID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fieldError("familyHeadId", msgFamilyHeadMissing)
	}
	if err != nil {
		return "", fmt.Errorf("get family head %s: %w", familyHeadID, err)
	}
	return head.Address, nil
}
