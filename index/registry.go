package index

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
)

// Options configures a backend constructor. File backends use Path and
// Delimiter; the sqlite backends use DB.
type Options struct {
	Path      string
	Delimiter rune
	DB        *sql.DB
	Logger    *zap.SugaredLogger
}

// Factory constructs a backend.
type Factory[T any] func(Options) (T, error)

// Registry maps backend identifiers to constructors.
// Thread-safe for concurrent registration and lookup.
type Registry[T any] struct {
	kind      string
	factories map[string]Factory[T]
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry; kind names the backend family in
// error messages.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, factories: make(map[string]Factory[T])}
}

// Register adds a constructor under name.
// Panics if a constructor is already registered with that name.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("%s backend already registered: %s", r.kind, name))
	}
	r.factories[name] = f
}

// Has reports whether a backend is registered under name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered identifiers, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend registered under name. Unknown names and
// constructor failures are ErrBackendUnavailable.
func (r *Registry[T]) Open(name string, opts Options) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	var zero T
	if !ok {
		return zero, errors.WithHintf(
			errors.WrapBackendUnavailable(errors.Newf("unknown backend %q", name), r.kind),
			"registered %s backends: %v", r.kind, r.Names(),
		)
	}
	b, err := f(opts)
	if err != nil {
		if errors.IsBackendUnavailable(err) {
			return zero, err
		}
		return zero, errors.WrapBackendUnavailable(err, r.kind)
	}
	return b, nil
}

// Default registries with the built-in backends.
var (
	Mentions   = NewRegistry[MentionIndex]("mention index")
	Properties = NewRegistry[PropertyIndex]("property index")
	Classes    = NewRegistry[ClassIndex]("class index")
)

func init() {
	Mentions.Register("csv", func(o Options) (MentionIndex, error) {
		return LoadMentionCSV(o.Path, o.Delimiter, o.Logger)
	})
	Mentions.Register("sqlite", func(o Options) (MentionIndex, error) {
		return NewSQLiteMentionIndex(o.DB)
	})

	Properties.Register("csv", func(o Options) (PropertyIndex, error) {
		return LoadPropertyCSV(o.Path, o.Delimiter, o.Logger)
	})
	Properties.Register("sqlite", func(o Options) (PropertyIndex, error) {
		return NewSQLitePropertyIndex(o.DB)
	})

	Classes.Register("csv", func(o Options) (ClassIndex, error) {
		return LoadClassCSV(o.Path, o.Delimiter, o.Logger)
	})
	Classes.Register("sqlite", func(o Options) (ClassIndex, error) {
		return NewSQLiteClassIndex(o.DB)
	})
}
