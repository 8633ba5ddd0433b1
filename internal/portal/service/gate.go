package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

// Operation names what a principal wants to do to a resident record.
type Operation string

const (
	OpRead   Operation = "read"
	OpQR     Operation = "qr"
	OpUpdate Operation = "update"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
	OpList   Operation = "list"
)

// Authorize is the resident access policy. Admins may do anything. Anyone
// else may read, fetch the QR of, or update only the record linked to their
// account.
func Authorize(p domain.Principal, target string, op Operation) error {
	if p.IsAdmin() {
		return nil
	}

	switch op {
	case OpRead, OpQR, OpUpdate:
		if p.ResidentID != "" && p.ResidentID == target {
			return nil
		}
	}
	return ErrForbidden
}

// Gate applies Authorize and records the decision.
type Gate struct {
	Metrics *metrics.Metrics
}

// Check must be called before the target record is loaded, so a denied
// caller learns nothing about whether it exists.
func (g *Gate) Check(ctx context.Context, p domain.Principal, target string, op Operation) error {
	err := Authorize(p, target, op)
	g.Metrics.IncGateDecision(string(op), err == nil)

	attrs := []slog.Attr{
		slog.String("user_id", p.UserID),
		slog.String("username", p.Username),
		slog.String("role", string(p.Role)),
		slog.String("target", target),
		slog.String("operation", string(op)),
	}

	switch {
	case err != nil:
		slogx.Audit(ctx, "resident access denied", attrs...)
	case op == OpRead || op == OpQR:
		slogx.Audit(ctx, "resident fetched", attrs...)
	}
	return err
}
