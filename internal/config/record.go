package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// Record is the structured configuration document exchanged with the host.
type Record map[string]any

// Persisted keys.
const (
	KeyShowAsSubmenus               = "showAsSubmenus"
	KeyShowAsSubmenusExceptFirstDay = "showAsSubmenusExceptFirstDay"
	KeyProviderClassName            = "providerClassName"
	KeyProviderPathAndFilename      = "providerPathAndFilename"
	KeyDurationDays                 = "durationDays"
	KeySeaportID                    = "seaportId"

	// Keys written by earlier releases; read-only fallbacks.
	legacyKeyClassName       = "userScriptClassName"
	legacyKeyPathAndFilename = "userScriptPathAndFilename"
)

// Keys lists the persisted keys in save order.
var Keys = []string{
	KeyShowAsSubmenus,
	KeyShowAsSubmenusExceptFirstDay,
	KeyProviderClassName,
	KeyProviderPathAndFilename,
	KeyDurationDays,
	KeySeaportID,
}

// RecordFrom serializes cfg. Every key is always present.
func RecordFrom(cfg models.Configuration) Record {
	return Record{
		KeyShowAsSubmenus:               cfg.ShowAsSubmenus,
		KeyShowAsSubmenusExceptFirstDay: cfg.ShowAsSubmenusExceptFirstDay,
		KeyProviderClassName:            cfg.ProviderClassName,
		KeyProviderPathAndFilename:      cfg.ProviderPathAndFilename,
		KeyDurationDays:                 cfg.DurationDays,
		KeySeaportID:                    cfg.SeaportID,
	}
}

// Configuration decodes r. Each key is decoded on its own: a missing key takes
// its default and a bad value takes its default and contributes an error. The
// returned configuration is always usable.
func (r Record) Configuration() (models.Configuration, error) {
	cfg := *models.NewConfiguration()
	var errs []error

	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(r.boolValue(KeyShowAsSubmenus, &cfg.ShowAsSubmenus))
	collect(r.boolValue(KeyShowAsSubmenusExceptFirstDay, &cfg.ShowAsSubmenusExceptFirstDay))
	collect(r.stringValue(&cfg.ProviderClassName, KeyProviderClassName, legacyKeyClassName))
	collect(r.stringValue(&cfg.ProviderPathAndFilename, KeyProviderPathAndFilename, legacyKeyPathAndFilename))
	collect(r.durationValue(&cfg.DurationDays))
	collect(r.stringValue(&cfg.SeaportID, KeySeaportID))

	return cfg, errors.Join(errs...)
}

func (r Record) boolValue(key string, dst *bool) error {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil
	}
	v, ok := raw.(bool)
	if !ok {
		return newMalformedKeyError(key, fmt.Errorf("want boolean, got %T", raw))
	}
	*dst = v
	return nil
}

// stringValue reads the first present key of keys into dst.
func (r Record) stringValue(dst *string, keys ...string) error {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || raw == nil {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return newMalformedKeyError(key, fmt.Errorf("want string, got %T", raw))
		}
		*dst = v
		return nil
	}
	return nil
}

func (r Record) durationValue(dst *int) error {
	raw, ok := r[KeyDurationDays]
	if !ok || raw == nil {
		return nil
	}

	var days int
	switch v := raw.(type) {
	case int:
		days = v
	case int64:
		days = int(v)
	case float64:
		// encoding/json decodes every number as float64
		if v != math.Trunc(v) {
			return newMalformedKeyError(KeyDurationDays, fmt.Errorf("not a whole number: %v", v))
		}
		days = int(v)
	default:
		return newMalformedKeyError(KeyDurationDays, fmt.Errorf("want integer, got %T", raw))
	}

	if !models.ValidDurationDays(days) {
		return newMalformedKeyError(KeyDurationDays, fmt.Errorf("%d outside %d..%d",
			days, models.MinDurationDays, models.MaxDurationDays))
	}
	*dst = days
	return nil
}

// Set parses raw according to the type of key and stores it. Only the keys
// in Keys are accepted. The resulting record must still decode cleanly.
func (r Record) Set(key, raw string) error {
	var v any
	switch key {
	case KeyShowAsSubmenus, KeyShowAsSubmenusExceptFirstDay:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return newMalformedKeyError(key, fmt.Errorf("want boolean, got %q", raw))
		}
		v = b
	case KeyDurationDays:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return newMalformedKeyError(key, fmt.Errorf("want integer, got %q", raw))
		}
		v = n
	case KeyProviderClassName, KeyProviderPathAndFilename, KeySeaportID:
		v = strings.TrimSpace(raw)
	default:
		return fmt.Errorf("unknown configuration key %q (known: %s)", key, strings.Join(Keys, ", "))
	}

	trial := Record{key: v}
	if _, err := trial.Configuration(); err != nil {
		return err
	}
	r[key] = v
	return nil
}
