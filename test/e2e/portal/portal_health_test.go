package portal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// TestProbesBeforeBootstrap checks the public endpoints of a fresh container.
func TestProbesBeforeBootstrap(t *testing.T) {
	client := portalsdk.NewClient(setupPortalContainer(t, nil))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "EdDSA", jwks.Keys[0].Alg)
}

func TestBootstrapOnlyOnce(t *testing.T) {
	client := portalsdk.NewClient(setupPortalContainer(t, nil))
	bootstrapAdmin(t, client)

	_, err := client.Bootstrap(t.Context(), bootstrapToken, portalsdk.BootstrapRequest{
		Username: "another-admin",
		Password: "AnotherPassword123!",
	})
	assertAPIError(t, err, portalsdk.ErrConflict)
}

func TestBootstrapDisabledWithoutToken(t *testing.T) {
	client := portalsdk.NewClient(setupPortalContainer(t, map[string]string{"BOOTSTRAP_TOKEN": ""}))

	_, err := client.Bootstrap(t.Context(), "anything", portalsdk.BootstrapRequest{
		Username: adminUsername,
		Password: adminPassword,
	})
	assertAPIError(t, err, portalsdk.ErrNotFound)
}
