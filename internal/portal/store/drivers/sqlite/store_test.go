package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/barangay/internal/portal/store/storetest"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portal.db")

	s, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Residents().CreateResident(ctx, storetest.Resident("R-2024001")))
	_, err = s.Counters().Next(ctx, "residents")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	_, err = s.Residents().GetResident(ctx, "R-2024001")
	require.NoError(t, err)

	n, err := s.Counters().Next(ctx, "residents")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestReferencedFamilyHeadCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.FamilyHeads().CreateFamilyHead(ctx, storetest.FamilyHead("F-2024001")))
	member := storetest.Resident("R-2024001")
	member.FamilyHeadID = "F-2024001"
	require.NoError(t, s.Residents().CreateResident(ctx, member))

	require.Error(t, s.FamilyHeads().DeleteFamilyHead(ctx, "F-2024001"))
}
