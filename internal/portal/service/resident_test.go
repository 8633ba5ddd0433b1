package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/pkg/qrx"
)

func TestCreateResident(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	r := e.createResident(t, validInput())
	require.Equal(t, "R-2024001", r.ResidentID)
	require.Equal(t, testNow, r.RegistrationDate)
	require.Equal(t, "1990-05-17", r.BirthDate.Format("2006-01-02"))

	stored, err := e.store.Residents().GetResident(ctx, r.ResidentID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.QRCode, "qr generated eagerly")

	got, err := e.residents.Get(ctx, admin, r.ResidentID)
	require.NoError(t, err)
	require.Empty(t, got.QRCode)
	require.Equal(t, "Juan Dela Cruz", got.FullName())
}

func TestCreateResidentValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		edit  func(*ResidentInput)
		field string
		msg   string
	}{
		{"first name", func(in *ResidentInput) { in.FirstName = "  " }, "firstName", "First name is required"},
		{"last name", func(in *ResidentInput) { in.LastName = "" }, "lastName", "Last name is required"},
		{"gender missing", func(in *ResidentInput) { in.Gender = "" }, "gender", "Gender is required"},
		{"gender unknown", func(in *ResidentInput) { in.Gender = "robot" }, "gender", "Gender must be Male, Female or Other"},
		{"birth date", func(in *ResidentInput) { in.BirthDate = "" }, "birthDate", "Birth date is required"},
		{"birth date garbage", func(in *ResidentInput) { in.BirthDate = "17/05/1990" }, "birthDate", "Birth date is required"},
		{"birth date future", func(in *ResidentInput) { in.BirthDate = "2030-01-01" }, "birthDate", "Birth date cannot be in the future"},
		{"address", func(in *ResidentInput) { in.Address = "" }, "address", "Address is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)

			_, err := e.residents.Create(ctx, admin, in)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.msg, ve.Fields[tc.field])
		})
	}

	rs, err := e.residents.List(ctx, admin)
	require.NoError(t, err)
	require.Empty(t, rs)
}

func TestCreateResidentAcceptsRFC3339AndGenderCase(t *testing.T) {
	e := newEnv(t)
	in := validInput()
	in.BirthDate = "1990-05-17T00:00:00.000Z"
	in.Gender = "female"

	r := e.createResident(t, in)
	require.Equal(t, "1990-05-17", r.BirthDate.Format("2006-01-02"))
	require.EqualValues(t, "Female", r.Gender)
}

func TestFamilyHeadAddressWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	head := e.createHead(t, "123 Elm St")

	in := validInput()
	in.FamilyHeadID = head.HeadID
	in.Address = "999 Fake St"
	r := e.createResident(t, in)

	stored, err := e.store.Residents().GetResident(ctx, r.ResidentID)
	require.NoError(t, err)
	require.Equal(t, "123 Elm St", stored.Address)
	require.Equal(t, head.HeadID, stored.FamilyHeadID)
}

func TestUnknownFamilyHeadRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := validInput()
	in.FamilyHeadID = "F-2024999"
	_, err := e.residents.Create(ctx, admin, in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Family head does not exist", ve.Fields["familyHeadId"])

	rs, err := e.store.Residents().ListResidents(ctx)
	require.NoError(t, err)
	require.Empty(t, rs)

	// The counter was not consumed either.
	r := e.createResident(t, validInput())
	require.Equal(t, "R-2024001", r.ResidentID)
}

func TestUpdateResident(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.createResident(t, validInput())
	head := e.createHead(t, "123 Elm St")

	before, err := e.store.Residents().GetResident(ctx, r.ResidentID)
	require.NoError(t, err)

	t.Run("self may update", func(t *testing.T) {
		in := validInput()
		in.ContactNumber = "09998887777"
		got, err := e.residents.Update(ctx, residentPrincipal(r.ResidentID), r.ResidentID, in)
		require.NoError(t, err)
		require.Equal(t, "09998887777", got.ContactNumber)
		require.Empty(t, got.QRCode)
	})

	t.Run("linking a head adopts its address", func(t *testing.T) {
		in := validInput()
		in.FamilyHeadID = head.HeadID
		in.Address = "elsewhere"
		got, err := e.residents.Update(ctx, admin, r.ResidentID, in)
		require.NoError(t, err)
		require.Equal(t, "123 Elm St", got.Address)
	})

	t.Run("unlinking keeps the submitted address", func(t *testing.T) {
		in := validInput()
		in.Address = "New Address"
		got, err := e.residents.Update(ctx, admin, r.ResidentID, in)
		require.NoError(t, err)
		require.Equal(t, "New Address", got.Address)
		require.Empty(t, got.FamilyHeadID)
	})

	t.Run("identity survives", func(t *testing.T) {
		after, err := e.store.Residents().GetResident(ctx, r.ResidentID)
		require.NoError(t, err)
		require.Equal(t, before.ResidentID, after.ResidentID)
		require.Equal(t, before.RegistrationDate, after.RegistrationDate)
		require.Equal(t, before.QRCode, after.QRCode)
	})

	t.Run("other resident forbidden", func(t *testing.T) {
		_, err := e.residents.Update(ctx, residentPrincipal("R-2024002"), r.ResidentID, validInput())
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("bad birth date", func(t *testing.T) {
		in := validInput()
		in.BirthDate = "yesterday"
		_, err := e.residents.Update(ctx, admin, r.ResidentID, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "Valid birth date is required", ve.Fields["birthDate"])
	})

	t.Run("unknown head", func(t *testing.T) {
		in := validInput()
		in.FamilyHeadID = "F-2024999"
		_, err := e.residents.Update(ctx, admin, r.ResidentID, in)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing resident", func(t *testing.T) {
		_, err := e.residents.Update(ctx, admin, "R-2024999", validInput())
		require.ErrorIs(t, err, ErrResidentNotFound)
	})
}

func TestResidentAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for range 8 {
		e.createResident(t, validInput())
	}
	self := residentPrincipal("R-2024007")

	t.Run("other record is forbidden", func(t *testing.T) {
		_, err := e.residents.Get(ctx, self, "R-2024008")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing record is forbidden for non admins", func(t *testing.T) {
		_, err := e.residents.Get(ctx, self, "R-2024999")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing record is not found for admins", func(t *testing.T) {
		_, err := e.residents.Get(ctx, admin, "R-2024999")
		require.ErrorIs(t, err, ErrResidentNotFound)
	})

	t.Run("own record", func(t *testing.T) {
		r, err := e.residents.Get(ctx, self, "R-2024007")
		require.NoError(t, err)
		require.Equal(t, "R-2024007", r.ResidentID)
	})

	t.Run("list is admin only", func(t *testing.T) {
		_, err := e.residents.List(ctx, self)
		require.ErrorIs(t, err, ErrForbidden)

		rs, err := e.residents.List(ctx, admin)
		require.NoError(t, err)
		require.Len(t, rs, 8)
		for _, r := range rs {
			require.Empty(t, r.QRCode)
		}
	})

	t.Run("create and delete are admin only", func(t *testing.T) {
		_, err := e.residents.Create(ctx, self, validInput())
		require.ErrorIs(t, err, ErrForbidden)
		require.ErrorIs(t, e.residents.Delete(ctx, self, "R-2024007"), ErrForbidden)
		require.ErrorIs(t, e.residents.Delete(ctx, staff, "R-2024007"), ErrForbidden)
	})
}

func TestResidentQRCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Created with a broken encoder so no artifact is cached up front.
	e.residents.QR.Encoder = failingEncoder{}
	for range 7 {
		e.createResident(t, validInput())
	}
	stored, err := e.store.Residents().GetResident(ctx, "R-2024007")
	require.NoError(t, err)
	require.Empty(t, stored.QRCode)

	self := residentPrincipal("R-2024007")

	t.Run("encode failure caches nothing", func(t *testing.T) {
		_, err := e.residents.QRCode(ctx, self, "R-2024007")
		require.Error(t, err)

		stored, err := e.store.Residents().GetResident(ctx, "R-2024007")
		require.NoError(t, err)
		require.Empty(t, stored.QRCode)
	})

	e.residents.QR.Encoder = qrx.NewEncoder(qrx.DefaultSize)

	first, err := e.residents.QRCode(ctx, self, "R-2024007")
	require.NoError(t, err)
	require.Contains(t, first, "data:image/png;base64,")

	stored, err = e.store.Residents().GetResident(ctx, "R-2024007")
	require.NoError(t, err)
	require.Equal(t, first, stored.QRCode)

	// Swap in a broken encoder: the second read must come from the cache.
	e.residents.QR.Encoder = failingEncoder{}
	second, err := e.residents.QRCode(ctx, self, "R-2024007")
	require.NoError(t, err)
	require.Equal(t, first, second)

	raw, err := qrx.DecodeDataURL(first)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, qrx.DefaultSize, img.Bounds().Dx())

	t.Run("other resident forbidden", func(t *testing.T) {
		_, err := e.residents.QRCode(ctx, self, "R-2024006")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing resident", func(t *testing.T) {
		_, err := e.residents.QRCode(ctx, admin, "R-2024999")
		require.ErrorIs(t, err, ErrResidentNotFound)
	})
}

func TestQRPayloadShape(t *testing.T) {
	t.Parallel()

	r := sampleResident()
	raw, err := json.Marshal(NewQRPayload(r))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"R-2024001","name":"Juan Dela Cruz","type":"Resident","verified":true}`, string(raw))

	var back QRPayload
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, NewQRPayload(r), back)
}

func TestDeleteResident(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.createResident(t, validInput())

	require.NoError(t, e.residents.Delete(ctx, admin, r.ResidentID))
	require.ErrorIs(t, e.residents.Delete(ctx, admin, r.ResidentID), ErrResidentNotFound)

	_, err := e.residents.Get(ctx, admin, r.ResidentID)
	require.ErrorIs(t, err, ErrResidentNotFound)
}
