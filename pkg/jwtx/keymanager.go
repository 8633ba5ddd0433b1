package jwtx

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/barangay/pkg/cryptox"
)

// KeyManager bundles the signer, verifier and published key set for one
// service instance.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet
}

type KeyManagerOptions struct {
	Issuer   string
	Audience []string

	// PrivateKeyPEM is a PKCS8 Ed25519 key. When nil an ephemeral key is
	// generated and every token dies with the process.
	PrivateKeyPEM []byte
}

// NewKeyManager wires an EdDSA signer and verifier around a single key.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	pemKey := opts.PrivateKeyPEM
	if len(pemKey) == 0 {
		var err error
		if pemKey, err = cryptox.GenerateEd25519Key(); err != nil {
			return nil, err
		}
	}

	signer, err := NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load signing key: %w", err)
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: publish signing key: %w", err)
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keys, opts.Issuer, opts.Audience),
		KeySet:   keys,
	}, nil
}

// IsReady reports whether a verification key is loaded.
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }
