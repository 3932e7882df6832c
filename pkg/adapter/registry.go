package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

// Factory builds an unconnected adapter.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an adapter factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get retrieves an adapter factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// NewAdapter creates a new, unconnected adapter of the given type.
// The logger parameter is passed to the adapter constructor (nil uses discard logger).
func NewAdapter(typ string, logger *slog.Logger) (Adapter, error) {
	if typ == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	factory, ok := Get(typ)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      typ,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// Open parses a connection string with the backend's defaults and returns a
// connected adapter.
func Open(ctx context.Context, typ, connStr string, logger *slog.Logger) (Adapter, error) {
	a, err := NewAdapter(typ, logger)
	if err != nil {
		return nil, err
	}
	desc, err := conninfo.Parse(connStr, conninfo.Defaults(a.DefaultPort()))
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, desc); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an adapter type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check target.type in leapfuzz.yaml", e.Type, e.Available)
}

// LoadCatalog opens an adapter of type typ on connStr, loads the catalog of
// the target and closes the connection before returning.
func LoadCatalog(ctx context.Context, typ, connStr string, logger *slog.Logger) (*catalog.Catalog, error) {
	a, err := Open(ctx, typ, connStr, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.Close(); err != nil && logger != nil {
			logger.Warn("failed to close catalog connection", slog.String("error", err.Error()))
		}
	}()
	return a.LoadCatalog(ctx)
}
