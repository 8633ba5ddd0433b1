package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

// QREncoder renders content as an image data URL. *qrx.Encoder satisfies it.
type QREncoder interface {
	DataURL(content string) (string, error)
}

// QRPayload is the claim carried inside a resident's QR code.
type QRPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Verified bool   `json:"verified"`
}

func NewQRPayload(r domain.Resident) QRPayload {
	return QRPayload{
		ID:       r.ResidentID,
		Name:     r.FullName(),
		Type:     "Resident",
		Verified: true,
	}
}

// QRGenerator produces a resident's artifact once and then serves the cached
// copy.
type QRGenerator struct {
	Store   store.Store
	Encoder QREncoder
	Metrics *metrics.Metrics
}

// Get returns r.QRCode when already set. Otherwise it encodes, persists and
// returns a new artifact. A failed encode stores nothing.
func (g *QRGenerator) Get(ctx context.Context, r domain.Resident) (string, error) {
	if r.QRCode != "" {
		g.Metrics.IncQRCode("cached")
		return r.QRCode, nil
	}

	payload, err := json.Marshal(NewQRPayload(r))
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}

	code, err := g.Encoder.DataURL(string(payload))
	if err != nil {
		g.Metrics.IncQRCode("error")
		return "", fmt.Errorf("encode qr for %s: %w", r.ResidentID, err)
	}

	if err := g.Store.Residents().SetQRCode(ctx, r.ResidentID, code); err != nil {
		return "", fmt.Errorf("store qr for %s: %w", r.ResidentID, err)
	}

	g.Metrics.IncQRCode("generated")
	slogx.FromContext(ctx).Info("qr code generated", slog.String("resident_id", r.ResidentID))
	return code, nil
}
