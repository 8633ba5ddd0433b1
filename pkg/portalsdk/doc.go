/*
Package portalsdk is the Go client for the barangay resident portal API and
the home of the wire types shared by the server handlers.

Create a Client, log in and use the returned token for the remaining calls:

	c := portalsdk.NewClient("https://portal.example.com")

	login, err := c.Login(ctx, portalsdk.LoginRequest{Username: "kapitan", Password: pw})
	if errors.Is(err, portalsdk.ErrMFARequired) {
		login, err = c.Login(ctx, portalsdk.LoginRequest{Username: "kapitan", Password: pw, OTPCode: code})
	}
	if err != nil {
		return err
	}
	admin := c.WithToken(login.AccessToken)

	res, err := admin.CreateResident(ctx, portalsdk.ResidentRequest{
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Gender:    "Male",
		BirthDate: "1990-05-17",
		Address:   "Purok 3, Poblacion",
	})

	qr, err := admin.GetResidentQRCode(ctx, res.ResidentID)

# Errors

Non-2xx responses are returned as *APIError. Validation failures carry
per-field messages in Details. APIError matches the predefined errors with
errors.Is on status and code, so callers can write:

	if errors.Is(err, portalsdk.ErrForbidden) { ... }
*/
package portalsdk
