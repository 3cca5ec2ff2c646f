// Package settings stores the provider-wide settings blob in Redis.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"soloplan/internal/availability"
)

// Settings is the single provider's configuration. It is passed explicitly
// into the availability and planning paths; nothing reads it ambiently.
type Settings struct {
	// BufferTimeMinutes pads both the candidate slot and every existing
	// appointment when testing overlap.
	BufferTimeMinutes int     `json:"buffer_time_minutes"`
	HourlyRate        float64 `json:"hourly_rate"`
	Country           string  `json:"country"`
	DefaultSlotTime   string  `json:"default_slot_time"`
	BusinessName      string  `json:"business_name,omitempty"`
}

func Defaults() Settings {
	return Settings{
		BufferTimeMinutes: 15,
		Country:           "US",
		DefaultSlotTime:   "10:00",
	}
}

// Validate rejects values the scheduling core cannot work with.
func (s Settings) Validate() error {
	if s.BufferTimeMinutes < 0 {
		return fmt.Errorf("buffer time must not be negative, got %d", s.BufferTimeMinutes)
	}
	if s.HourlyRate < 0 {
		return fmt.Errorf("hourly rate must not be negative, got %v", s.HourlyRate)
	}
	if s.Country == "" {
		return errors.New("country is required")
	}
	if s.DefaultSlotTime != "" {
		if _, err := availability.MinutesOfDay(s.DefaultSlotTime); err != nil {
			return fmt.Errorf("default slot time: %w", err)
		}
	}
	return nil
}

const storeKey = "soloplan:settings"

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Get loads the settings blob, falling back to defaults when none was saved.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	raw, err := s.rdb.Get(ctx, storeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, in Settings) error {
	if err := in.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, storeKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}
