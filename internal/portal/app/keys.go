package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
)

// InitKeys builds the token KeyManager.
//
// With SIGNING_KEY_FILE set the Ed25519 key is read from that file, or
// generated and written there on first start, so tokens survive restarts.
// Without it a key is generated in memory and every token dies with the
// process.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		var err error
		pemKey, err = cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
	}

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:        cfg.Issuer,
		PrivateKeyPEM: pemKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	if pemKey == nil {
		logger.Warn("using an ephemeral signing key, tokens will not survive a restart",
			"kid", km.Signer.KID(),
		)
	} else {
		logger.Info("signing key loaded",
			"kid", km.Signer.KID(),
			"alg", km.Signer.Alg(),
			"issuer", cfg.Issuer,
		)
	}

	return km, nil
}
