package services

import (
	"errors"
	"sync"
	"time"

	"github.com/skylark-app/feedback-backend/logger"
	"github.com/skylark-app/feedback-backend/types"
)

// DefaultIconID is the registry entry present and active at process start.
const DefaultIconID = "default"

// Icon registry errors.
var (
	ErrIconNotFound = errors.New("icon not found")
	ErrIconExists   = errors.New("icon id already registered")
	ErrNoActiveIcon = errors.New("no active icon")
)

// IconRegistry is the single source of truth for which app icon client
// apps should currently display. The table lives in memory only and
// resets to the bootstrap default on restart.
//
// Invariant: at most one record is active at any time. All mutation
// happens under the mutex, so no reader can observe zero or two active
// entries mid-switch.
type IconRegistry struct {
	mu    sync.RWMutex
	icons map[string]*types.IconRecord
	order []string
	now   func() time.Time
}

// NewIconRegistry creates a registry seeded with the active default icon.
func NewIconRegistry(defaultName, defaultURL string) *IconRegistry {
	r := &IconRegistry{
		icons: make(map[string]*types.IconRecord),
		now:   time.Now,
	}
	if defaultName == "" {
		defaultName = "Default"
	}
	r.icons[DefaultIconID] = &types.IconRecord{
		ID:          DefaultIconID,
		DisplayName: defaultName,
		URL:         defaultURL,
		IsActive:    true,
		LastUpdated: r.now(),
	}
	r.order = append(r.order, DefaultIconID)
	return r
}

// GetActive returns the unique active record. ErrNoActiveIcon should never
// fire if Activate and the bootstrap are correct, but the query defends
// against it rather than assuming.
func (r *IconRegistry) GetActive() (types.IconRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if rec := r.icons[id]; rec.IsActive {
			return *rec, nil
		}
	}
	return types.IconRecord{}, ErrNoActiveIcon
}

// List returns every record in insertion order.
func (r *IconRegistry) List() []types.IconRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.IconRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.icons[id])
	}
	return out
}

// Add registers a new icon, always inactive. The current active entry is
// unaffected. Fails with ErrIconExists on a duplicate id.
func (r *IconRegistry) Add(id, displayName, url string) (types.IconRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.icons[id]; exists {
		return types.IconRecord{}, ErrIconExists
	}

	rec := &types.IconRecord{
		ID:          id,
		DisplayName: displayName,
		URL:         url,
		IsActive:    false,
		LastUpdated: r.now(),
	}
	r.icons[id] = rec
	r.order = append(r.order, id)

	logger.GetLogger().Infow("Icon registered", "id", id, "display_name", displayName)
	return *rec, nil
}

// Activate makes the target icon the single active one. Every entry is
// cleared and the target set in one pass under the lock; a full
// scan-and-clear is fine at this table size.
func (r *IconRegistry) Activate(id string) (types.IconRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.icons[id]
	if !exists {
		return types.IconRecord{}, ErrIconNotFound
	}

	now := r.now()
	for _, rec := range r.icons {
		if rec.IsActive {
			rec.IsActive = false
			rec.LastUpdated = now
		}
	}
	target.IsActive = true
	target.LastUpdated = now

	iconActivationsTotal.Inc()
	logger.GetLogger().Infow("Icon activated", "id", id)
	return *target, nil
}
