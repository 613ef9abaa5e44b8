package config

import (
	"encoding/json"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// Store owns the in-memory configuration and its on-disk copy.
//
// Values are resolved in three tiers: the defaults set by NewStore, the record
// the host delivers through Load, and a direct re-read of the file performed by
// ResolveAtUpdateTime when an update cycle finds no provider path. The last tier
// covers hosts that start updating before they deliver the configuration.
type Store struct {
	path   string
	logger *zap.Logger
	cfg    models.Configuration
}

// NewStore creates a store backed by the file at path, holding defaults.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger.Named("config"),
		cfg:    *models.NewConfiguration(),
	}
}

// NewDefaultStore creates a store backed by ~/.tide/tide.json.
func NewDefaultStore(logger *zap.Logger) (*Store, error) {
	path, err := ConfigFile()
	if err != nil {
		return nil, err
	}
	return NewStore(path, logger), nil
}

// Path returns the on-disk location.
func (s *Store) Path() string {
	return s.path
}

// Config returns a copy of the in-memory configuration.
func (s *Store) Config() models.Configuration {
	return s.cfg
}

// SetConfig replaces the in-memory configuration.
func (s *Store) SetConfig(cfg models.Configuration) {
	s.cfg = cfg
}

// Load applies a host-supplied record. A nil record changes nothing. Bad
// values are replaced by defaults and reported in the returned error, which
// wraps one *ConfigLoadError per field.
func (s *Store) Load(rec Record) error {
	if rec == nil {
		s.logger.Debug("No configuration record supplied")
		return nil
	}

	cfg, err := rec.Configuration()
	s.cfg = cfg
	if err != nil {
		s.logger.Warn("Configuration contains malformed values, defaults substituted", zap.Error(err))
	}
	s.logger.Debug("Configuration loaded", zap.String("provider", cfg.ProviderPathAndFilename))
	return err
}

// Save serializes the in-memory configuration.
func (s *Store) Save() Record {
	return RecordFrom(s.cfg)
}

// Persist writes Save() to disk.
func (s *Store) Persist() error {
	if err := SaveJSON(s.path, s.Save()); err != nil {
		return err
	}
	s.logger.Debug("Configuration saved", zap.String("path", s.path))
	return nil
}

// ReadPersisted reads the record stored on disk. A missing file yields a nil
// record and no error.
func (s *Store) ReadPersisted() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &ConfigLoadError{Kind: KindUnreadable, Path: s.path, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &ConfigLoadError{Kind: KindMalformed, Path: s.path, Err: err}
	}
	return rec, nil
}

// LoadPersisted reads the on-disk record and applies it with Load. A malformed
// file leaves the defaults in place.
func (s *Store) LoadPersisted() error {
	rec, err := s.ReadPersisted()
	if err != nil {
		s.logger.Error("Failed to read configuration", zap.Error(err))
		return err
	}
	return s.Load(rec)
}

// ResolveAtUpdateTime re-reads the provider settings from disk when the
// in-memory provider path is still empty. Once a path is known this is a no-op,
// so a later call can never overwrite it.
func (s *Store) ResolveAtUpdateTime() error {
	if s.cfg.ProviderPathAndFilename != "" {
		return nil
	}

	rec, err := s.ReadPersisted()
	if err != nil {
		s.logger.Error("Fallback configuration read failed", zap.Error(err))
		return err
	}
	if rec == nil {
		s.logger.Debug("No configuration file, fallback not possible", zap.String("path", s.path))
		return nil
	}

	disk, err := rec.Configuration()
	if err != nil {
		s.logger.Warn("Fallback configuration contains malformed values", zap.Error(err))
	}

	s.cfg.ProviderPathAndFilename = disk.ProviderPathAndFilename
	s.cfg.ProviderClassName = disk.ProviderClassName
	s.cfg.DurationDays = disk.DurationDays
	s.cfg.SeaportID = disk.SeaportID

	s.logger.Info("Fallback configuration loaded",
		zap.String("provider", s.cfg.ProviderPathAndFilename),
		zap.String("class", s.cfg.ProviderClassName),
		zap.Int("duration_days", s.cfg.DurationDays))
	return err
}
