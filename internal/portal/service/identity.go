package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

const (
	ResidentPrefix   = "R-"
	FamilyHeadPrefix = "F-"

	residentCounter   = "residents"
	familyHeadCounter = "family_heads"

	maxAllocAttempts = 5
)

// FormatID renders prefix, year and a sequence padded to at least three
// digits: FormatID("R-", 2024, 1) == "R-2024001". Sequences past 999 widen.
func FormatID(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%d%03d", prefix, year, seq)
}

// IDAllocator hands out year-stamped identifiers from an atomic store
// counter. The unique index on the id column catches anything the counter
// misses, such as rows imported with hand-picked ids.
type IDAllocator struct {
	Store store.Store

	// YearlyReset scopes counters to the current year so the sequence
	// restarts at 001 every January.
	YearlyReset bool

	Now     func() time.Time
	Metrics *metrics.Metrics
}

func (a *IDAllocator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *IDAllocator) counterName(base string, year int) string {
	if a.YearlyReset {
		return base + ":" + strconv.Itoa(year)
	}
	return base
}

// Allocate draws ids and passes each to insert until insert stops reporting
// store.ErrAlreadyExists. Any other insert error is returned as is.
func (a *IDAllocator) Allocate(ctx context.Context, prefix, counter string, insert func(id string) error) (string, error) {
	l := slogx.FromContext(ctx)

	for attempt := 1; attempt <= maxAllocAttempts; attempt++ {
		year := a.now().Year()

		seq, err := a.Store.Counters().Next(ctx, a.counterName(counter, year))
		if err != nil {
			return "", fmt.Errorf("next %s sequence: %w", counter, err)
		}

		id := FormatID(prefix, year, seq)
		err = insert(id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return "", err
		}

		a.Metrics.IncIDCollision()
		l.Warn("identifier already taken, retrying",
			slog.String("id", id),
			slog.Int("attempt", attempt),
		)
	}

	return "", fmt.Errorf("%w after %d attempts", ErrIDAllocation, maxAllocAttempts)
}
