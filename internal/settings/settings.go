package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrProtectedSetting is returned when a caller tries to change a system setting.
var ErrProtectedSetting = errors.New("setting is protected")

// ErrNotFound is returned when a setting key does not exist.
var ErrNotFound = errors.New("setting not found")

// Setting is one configuration row.
type Setting struct {
	Key         string    `json:"setting_key"`
	Value       string    `json:"setting_value"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository persists settings rows.
type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s Setting) error
	InsertIfAbsent(ctx context.Context, s Setting) error
	Delete(ctx context.Context, key string) error
	ByCategory(ctx context.Context, category string) ([]Setting, error)
	AllEditable(ctx context.Context) ([]Setting, error)
}

// Store exposes typed access to configuration with system-key protection.
type Store struct {
	repo Repository
}

// NewStore creates a settings store.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the stored value for key, or def when the key is absent.
func (s *Store) Get(ctx context.Context, key, def string) string {
	row, err := s.repo.Get(ctx, key)
	if err != nil || row == nil {
		return def
	}
	return row.Value
}

// GetInt returns the value coerced to int, or def when absent or malformed.
func (s *Store) GetInt(ctx context.Context, key string, def int) int {
	row, err := s.repo.Get(ctx, key)
	if err != nil || row == nil {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		return def
	}
	return parsed
}

// GetFloat returns the value coerced to float64, or def when absent or malformed.
func (s *Store) GetFloat(ctx context.Context, key string, def float64) float64 {
	row, err := s.repo.Get(ctx, key)
	if err != nil || row == nil {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
	if err != nil {
		return def
	}
	return parsed
}

// GetBool returns true when the value is one of true/1/yes/on (case-insensitive).
// Absent keys return def; any other value is false.
func (s *Store) GetBool(ctx context.Context, key string, def bool) bool {
	row, err := s.repo.Get(ctx, key)
	if err != nil || row == nil {
		return def
	}
	return Truthy(row.Value)
}

// Truthy reports whether a raw setting value means true.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// SetOptions carries optional metadata for Set.
type SetOptions struct {
	Description string
	Category    string
	IsSystem    bool
}

// Set inserts or overwrites a setting. Updating a system setting fails
// with ErrProtectedSetting.
func (s *Store) Set(ctx context.Context, key, value string, opts SetOptions) (*Setting, error) {
	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := Setting{
		Key:         key,
		Value:       value,
		Description: opts.Description,
		Category:    opts.Category,
		IsSystem:    opts.IsSystem,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if row.Category == "" {
		row.Category = CategoryGeneral
	}

	if existing != nil {
		if existing.IsSystem {
			return nil, ErrProtectedSetting
		}
		row.Category = existing.Category
		row.IsSystem = existing.IsSystem
		row.CreatedAt = existing.CreatedAt
		if opts.Description == "" {
			row.Description = existing.Description
		}
		if opts.Category != "" {
			row.Category = opts.Category
		}
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes a non-system setting. Missing keys return ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.IsSystem {
		return ErrProtectedSetting
	}
	return s.repo.Delete(ctx, key)
}

// Describe returns the full row for key, or ErrNotFound.
func (s *Store) Describe(ctx context.Context, key string) (*Setting, error) {
	row, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

// ByCategory lists all settings in a category.
func (s *Store) ByCategory(ctx context.Context, category string) ([]Setting, error) {
	return s.repo.ByCategory(ctx, category)
}

// AllEditable lists all non-system settings.
func (s *Store) AllEditable(ctx context.Context) ([]Setting, error) {
	return s.repo.AllEditable(ctx)
}

// InitializeDefaults seeds the defaults table, inserting each key only if
// absent. Idempotent, safe to call on every startup.
func (s *Store) InitializeDefaults(ctx context.Context) error {
	now := time.Now().UTC()
	for _, d := range Defaults() {
		d.CreatedAt = now
		d.UpdatedAt = now
		if err := s.repo.InsertIfAbsent(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
