package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
)

var _ interfaces.IMarketDataSource = (*SourceManager)(nil)

// SourceManager keeps the configured market data providers by name and
// hands out the active one.
type SourceManager struct {
	Sources map[string]interfaces.IMarketDataSource
	Active  string
	Logger  *logger.Logger
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSourceManager(sources []interfaces.IMarketDataSource, active string, log *logger.Logger) *SourceManager {
	m := &SourceManager{
		Sources: make(map[string]interfaces.IMarketDataSource),
		Active:  active,
		Logger:  log,
	}
	for _, s := range sources {
		m.Sources[s.Name()] = s
	}
	return m
}

// -----------------------------------------------------------------------------

// AddSource registers a provider. Names must be unique.
func (m *SourceManager) AddSource(source interfaces.IMarketDataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.Sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}
	m.Sources[name] = source
	m.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

func (m *SourceManager) GetSource(name string) (interfaces.IMarketDataSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, exists := m.Sources[name]
	if !exists {
		return nil, helpers.NewConfiguration("source %s not found", name)
	}
	return source, nil
}

// -----------------------------------------------------------------------------

// ActiveSource returns the provider selected in the configuration.
func (m *SourceManager) ActiveSource() (interfaces.IMarketDataSource, error) {
	m.mu.RLock()
	active := m.Active
	m.mu.RUnlock()
	return m.GetSource(active)
}

// -----------------------------------------------------------------------------

// SetActive switches providers for subsequent refreshes.
func (m *SourceManager) SetActive(name string) error {
	if _, err := m.GetSource(name); err != nil {
		return err
	}
	m.mu.Lock()
	m.Active = name
	m.mu.Unlock()
	m.Logger.Info("Active source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

func (m *SourceManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// Name reports the active provider, so the manager can stand in for it.
func (m *SourceManager) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Active
}

// -----------------------------------------------------------------------------

// FetchSnapshots delegates to the active provider.
func (m *SourceManager) FetchSnapshots(ctx context.Context, ids []string, limit int) ([]models.MMarketSnapshot, error) {
	source, err := m.ActiveSource()
	if err != nil {
		return nil, err
	}
	return source.FetchSnapshots(ctx, ids, limit)
}
