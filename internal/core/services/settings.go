package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStrategy        = "synthesis.strategy"
	keyCrossoverProb   = "synthesis.crossover_probability"
	keyPerturbationMin = "synthesis.perturbation_min"
	keyPerturbationMax = "synthesis.perturbation_max"
	keyNeighborhoodBuf = "synthesis.neighborhood_buffer"
	keyBatchWorkers    = "batch.workers"
	keyBatchPrefix     = "batch.prefix"
	keyBatchSource     = "batch.source"
	keyBatchSeed       = "batch.seed"
	keyOutputDir       = "output.dir"
	keyCatalogEnabled  = "catalog.enabled"
	keyMetricsPath     = "metrics.path"
)

// settingKind is the value type stored under a key.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
)

var settingKinds = map[string]settingKind{
	keyStrategy:        kindString,
	keyCrossoverProb:   kindFloat,
	keyPerturbationMin: kindFloat,
	keyPerturbationMax: kindFloat,
	keyNeighborhoodBuf: kindFloat,
	keyBatchWorkers:    kindInt,
	keyBatchPrefix:     kindString,
	keyBatchSource:     kindString,
	keyBatchSeed:       kindInt,
	keyOutputDir:       kindString,
	keyCatalogEnabled:  kindBool,
	keyMetricsPath:     kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Unset or unusable values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Synthesis: domain.SynthesisConfig{
			Strategy:             s.getStrategy(defaults.Synthesis.Strategy),
			CrossoverProbability: s.getFloat(keyCrossoverProb, defaults.Synthesis.CrossoverProbability),
			PerturbationMin:      s.getFloat(keyPerturbationMin, defaults.Synthesis.PerturbationMin),
			PerturbationMax:      s.getFloat(keyPerturbationMax, defaults.Synthesis.PerturbationMax),
			NeighborhoodBuffer:   s.getFloat(keyNeighborhoodBuf, defaults.Synthesis.NeighborhoodBuffer),
		},
		Batch: domain.BatchSettings{
			Workers: s.getInt(keyBatchWorkers, defaults.Batch.Workers),
			Prefix:  s.getString(keyBatchPrefix, defaults.Batch.Prefix),
			Source:  s.getString(keyBatchSource, defaults.Batch.Source),
			Seed:    int64(s.getInt(keyBatchSeed, int(defaults.Batch.Seed))),
		},
		Output: domain.OutputSettings{
			Dir: s.getString(keyOutputDir, defaults.Output.Dir),
		},
		Catalog: domain.CatalogSettings{
			Enabled: s.getBool(keyCatalogEnabled, defaults.Catalog.Enabled),
		},
		Metrics: domain.MetricsSettings{
			Path: s.configStore.GetString(keyMetricsPath), // empty disables export
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyStrategy:        settings.Synthesis.Strategy.String(),
		keyCrossoverProb:   settings.Synthesis.CrossoverProbability,
		keyPerturbationMin: settings.Synthesis.PerturbationMin,
		keyPerturbationMax: settings.Synthesis.PerturbationMax,
		keyNeighborhoodBuf: settings.Synthesis.NeighborhoodBuffer,
		keyBatchWorkers:    settings.Batch.Workers,
		keyBatchPrefix:     settings.Batch.Prefix,
		keyBatchSource:     settings.Batch.Source,
		keyBatchSeed:       settings.Batch.Seed,
		keyOutputDir:       settings.Output.Dir,
		keyCatalogEnabled:  settings.Catalog.Enabled,
		keyMetricsPath:     settings.Metrics.Path,
	}
	if err := s.configStore.SetAll(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set parses value for key's type, checks the resulting settings and
// stores the single key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	applySetting(settings, key, parsed)
	if err := settings.Validate(); err != nil {
		return err
	}

	return s.configStore.Set(key, parsed)
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", value, domain.ErrInvalidInput)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", value, domain.ErrInvalidInput)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean: %w", value, domain.ErrInvalidInput)
		}
		return b, nil
	default:
		return value, nil
	}
}

func applySetting(settings *domain.AppSettings, key string, value any) {
	switch key {
	case keyStrategy:
		settings.Synthesis.Strategy = domain.Strategy(value.(string))
	case keyCrossoverProb:
		settings.Synthesis.CrossoverProbability = value.(float64)
	case keyPerturbationMin:
		settings.Synthesis.PerturbationMin = value.(float64)
	case keyPerturbationMax:
		settings.Synthesis.PerturbationMax = value.(float64)
	case keyNeighborhoodBuf:
		settings.Synthesis.NeighborhoodBuffer = value.(float64)
	case keyBatchWorkers:
		settings.Batch.Workers = int(value.(int64))
	case keyBatchPrefix:
		settings.Batch.Prefix = value.(string)
	case keyBatchSource:
		settings.Batch.Source = value.(string)
	case keyBatchSeed:
		settings.Batch.Seed = value.(int64)
	case keyOutputDir:
		settings.Output.Dir = value.(string)
	case keyCatalogEnabled:
		settings.Catalog.Enabled = value.(bool)
	case keyMetricsPath:
		settings.Metrics.Path = value.(string)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStrategy(defaultVal domain.Strategy) domain.Strategy {
	strategy := domain.Strategy(s.configStore.GetString(keyStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}
