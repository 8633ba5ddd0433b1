// Package storetest holds behaviour tests shared by every store driver.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
)

// Factory returns an empty, migrated store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run exercises the full store contract against the driver built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Residents", func(t *testing.T) { testResidents(t, newStore(t)) })
	t.Run("ResidentDuplicate", func(t *testing.T) { testResidentDuplicate(t, newStore(t)) })
	t.Run("ResidentQRCode", func(t *testing.T) { testResidentQRCode(t, newStore(t)) })
	t.Run("FamilyHeads", func(t *testing.T) { testFamilyHeads(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("UserMFA", func(t *testing.T) { testUserMFA(t, newStore(t)) })
	t.Run("Counters", func(t *testing.T) { testCounters(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

// Stamp is a fixed time with second precision so drivers round-trip it exactly.
var Stamp = time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)

func Resident(id string) domain.Resident {
	return domain.Resident{
		ResidentID:       id,
		FirstName:        "Juan",
		LastName:         "Dela Cruz",
		Gender:           domain.GenderMale,
		BirthDate:        time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:          "Purok 3, Poblacion",
		ContactNumber:    "09171234567",
		RegistrationDate: Stamp,
		UpdatedAt:        Stamp,
	}
}

func FamilyHead(id string) domain.FamilyHead {
	return domain.FamilyHead{
		HeadID:           id,
		FirstName:        "Maria",
		LastName:         "Santos",
		Address:          "Sitio Malinis, Zone 5",
		RegistrationDate: Stamp,
	}
}

func User(id, username string, role domain.Role) domain.User {
	return domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         role,
		CreatedAt:    Stamp,
		UpdatedAt:    Stamp,
	}
}

func testResidents(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Residents()

	_, err := repo.GetResident(ctx, "R-2024001")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := repo.ListResidents(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	first := Resident("R-2024001")
	second := Resident("R-2024002")
	second.FirstName = "Ana"
	second.Gender = domain.GenderFemale
	second.ContactNumber = ""
	second.RegistrationDate = Stamp.Add(time.Hour)
	second.UpdatedAt = second.RegistrationDate

	require.NoError(t, repo.CreateResident(ctx, second))
	require.NoError(t, repo.CreateResident(ctx, first))

	got, err := repo.GetResident(ctx, first.ResidentID)
	require.NoError(t, err)
	require.Equal(t, first, got)

	list, err = repo.ListResidents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "R-2024001", list[0].ResidentID, "ordered by registration date")
	require.Empty(t, list[1].ContactNumber)

	upd := first
	upd.Address = "Block 9, Riverside"
	upd.ContactNumber = ""
	upd.UpdatedAt = Stamp.Add(24 * time.Hour)
	upd.RegistrationDate = Stamp.Add(-time.Hour) // ignored
	require.NoError(t, repo.UpdateResident(ctx, upd))

	got, err = repo.GetResident(ctx, first.ResidentID)
	require.NoError(t, err)
	require.Equal(t, "Block 9, Riverside", got.Address)
	require.Empty(t, got.ContactNumber)
	require.True(t, got.UpdatedAt.Equal(upd.UpdatedAt))
	require.True(t, got.RegistrationDate.Equal(Stamp))

	missing := Resident("R-2024999")
	require.ErrorIs(t, repo.UpdateResident(ctx, missing), store.ErrNotFound)

	require.NoError(t, repo.DeleteResident(ctx, first.ResidentID))
	require.ErrorIs(t, repo.DeleteResident(ctx, first.ResidentID), store.ErrNotFound)
	_, err = repo.GetResident(ctx, first.ResidentID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testResidentDuplicate(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Residents().CreateResident(ctx, Resident("R-2024001")))
	require.ErrorIs(t, s.Residents().CreateResident(ctx, Resident("R-2024001")), store.ErrAlreadyExists)
}

func testResidentQRCode(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Residents()
	require.NoError(t, repo.CreateResident(ctx, Resident("R-2024001")))

	got, err := repo.GetResident(ctx, "R-2024001")
	require.NoError(t, err)
	require.Empty(t, got.QRCode)

	require.NoError(t, repo.SetQRCode(ctx, "R-2024001", "data:image/png;base64,AAAA"))
	got, err = repo.GetResident(ctx, "R-2024001")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AAAA", got.QRCode)

	// Updates leave the artifact in place.
	got.FirstName = "Pedro"
	require.NoError(t, repo.UpdateResident(ctx, got))
	got, err = repo.GetResident(ctx, "R-2024001")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AAAA", got.QRCode)

	require.ErrorIs(t, repo.SetQRCode(ctx, "R-2024404", "x"), store.ErrNotFound)
}

func testFamilyHeads(t *testing.T, s store.Store) {
	ctx := context.Background()
	heads := s.FamilyHeads()

	_, err := heads.GetFamilyHead(ctx, "F-2024001")
	require.ErrorIs(t, err, store.ErrNotFound)

	h := FamilyHead("F-2024001")
	require.NoError(t, heads.CreateFamilyHead(ctx, h))
	require.ErrorIs(t, heads.CreateFamilyHead(ctx, h), store.ErrAlreadyExists)

	got, err := heads.GetFamilyHead(ctx, h.HeadID)
	require.NoError(t, err)
	require.Equal(t, h, got)

	list, err := heads.ListFamilyHeads(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.FamilyHead{h}, list)

	member := Resident("R-2024001")
	member.FamilyHeadID = h.HeadID
	require.NoError(t, s.Residents().CreateResident(ctx, member))
	require.NoError(t, s.Residents().CreateResident(ctx, Resident("R-2024002")))

	n, err := s.Residents().CountByFamilyHead(ctx, h.HeadID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, s.Residents().DeleteResident(ctx, member.ResidentID))
	require.NoError(t, heads.DeleteFamilyHead(ctx, h.HeadID))
	require.ErrorIs(t, heads.DeleteFamilyHead(ctx, h.HeadID), store.ErrNotFound)
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	empty, err := users.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	admin := User("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZA", "kapitan", domain.RoleAdmin)
	res := User("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZB", "juan", domain.RoleResident)
	res.ResidentID = "R-2024001"
	res.CreatedAt = Stamp.Add(time.Minute)
	res.UpdatedAt = res.CreatedAt

	require.NoError(t, users.CreateUser(ctx, admin))
	require.NoError(t, users.CreateUser(ctx, res))

	dup := User("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZC", "kapitan", domain.RoleStaff)
	require.ErrorIs(t, users.CreateUser(ctx, dup), store.ErrAlreadyExists)

	empty, err = users.IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	got, err := users.GetUserByUsername(ctx, "juan")
	require.NoError(t, err)
	require.Equal(t, res, got)

	got, err = users.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Empty(t, got.ResidentID)
	require.False(t, got.MFAEnabled())

	_, err = users.GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "kapitan", list[0].Username)

	require.NoError(t, users.UpdatePasswordHash(ctx, res.ID, "new-hash"))
	got, err = users.GetUserByID(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.ErrorIs(t, users.UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)

	require.NoError(t, users.DeleteUser(ctx, res.ID))
	require.ErrorIs(t, users.DeleteUser(ctx, res.ID), store.ErrNotFound)
}

func testUserMFA(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	u := User("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZA", "kapitan", domain.RoleAdmin)
	require.NoError(t, users.CreateUser(ctx, u))

	// Nothing to enable without a secret.
	require.ErrorIs(t, users.EnableMFA(ctx, u.ID), store.ErrNotFound)

	require.NoError(t, users.UpdateMFASecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
	got, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MFASecret)
	require.Equal(t, "JBSWY3DPEHPK3PXP", *got.MFASecret)
	require.False(t, got.MFAEnabled())

	require.NoError(t, users.EnableMFA(ctx, u.ID))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.MFAEnabled())

	require.NoError(t, users.DisableMFA(ctx, u.ID))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.MFASecret)
	require.False(t, got.MFAEnabled())
}

func testCounters(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Counters()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Next(ctx, "residents")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	got, err := c.Next(ctx, "residents:2025")
	require.NoError(t, err)
	require.EqualValues(t, 1, got, "counters are independent")

	const workers = 8
	values := make(chan int64, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Next(ctx, "family_heads")
			if err != nil {
				errs <- err
				return
			}
			values <- v
		}()
	}
	wg.Wait()
	close(values)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[int64]bool{}
	for v := range values {
		seen[v] = true
	}

	require.Len(t, seen, workers, "concurrent increments never collide")
	for v := int64(1); v <= workers; v++ {
		require.True(t, seen[v])
	}
}
