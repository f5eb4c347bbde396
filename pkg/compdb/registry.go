package compdb

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// Loader loads a compilation database of one format from a directory.
type Loader interface {
	// LoadFromDirectory loads the database this loader understands from
	// dir. It fails when the database is absent or malformed.
	LoadFromDirectory(dir string) (Database, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Loader)
	order      []string
)

// RegisterLoader adds a database format loader under name.
//
// Loaders are registered explicitly by the host application at startup, not
// through package init side effects, so hosts control which formats are
// probed and in which order. Re-registering a name replaces the loader
// without changing the probe order.
func RegisterLoader(name string, l Loader) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; !dup {
		order = append(order, name)
	}
	registry[name] = l
}

// GetLoader retrieves a registered loader by name.
func GetLoader(name string) (Loader, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	l, ok := registry[name]
	return l, ok
}

// ListLoaders returns registered loader names in registration order.
func ListLoaders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, len(order))
	copy(names, order)
	return names
}

// FromDirectory probes the registered loaders against dir in registration
// order and returns the first database found. When every loader fails the
// returned error wraps ErrNotFound along with each loader's failure.
func FromDirectory(dir string) (Database, error) {
	var errs []error
	for _, name := range ListLoaders() {
		l, ok := GetLoader(name)
		if !ok {
			continue
		}
		db, err := l.LoadFromDirectory(dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return db, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w in %s: no loaders registered", ErrNotFound, dir)
	}
	return nil, fmt.Errorf("%w in %s: %w", ErrNotFound, dir, errors.Join(errs...))
}

// Autodetect walks from startDir up to the filesystem root and returns the
// first database any registered loader can load, along with the directory it
// was found in.
func Autodetect(startDir string) (Database, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		if db, err := FromDirectory(dir); err == nil {
			return db, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", fmt.Errorf("%w under %s", ErrNotFound, startDir)
		}
		dir = parent
	}
}
