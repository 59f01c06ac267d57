package transport

import (
	"fmt"
	"net/http"
	"time"

	"barback/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Boundary parsing for URL and query parameters. Together with
// middleware.DecodeAndValidate for bodies, this is the only place raw
// request strings become typed values.

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q is not a UUID", name, raw)
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q is not a UUID", name, raw)
	}
	return &id, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q is not a date (YYYY-MM-DD)", name, raw)
	}
	return &t, nil
}

// requiredDateRange parses the from/to query params, both mandatory.
// The to date is widened to the end of its day so the range is inclusive.
func requiredDateRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == nil || to == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to dates are required")
	}
	return *from, to.Add(24*time.Hour - time.Nanosecond), nil
}

func queryMovementKind(r *http.Request) (*domain.MovementKind, error) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		return nil, nil
	}
	kind := domain.MovementKind(raw)
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid kind: %q", raw)
	}
	return &kind, nil
}

func queryLedgerKind(r *http.Request) (*domain.LedgerKind, error) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		return nil, nil
	}
	kind := domain.LedgerKind(raw)
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid kind: %q", raw)
	}
	return &kind, nil
}
