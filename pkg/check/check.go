package check

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/liquidlens/liquidlens/pkg/liquid"
)

var (
	// ErrDuplicateCheck is returned by [Registry.Add] when a check with
	// the same code is already registered. Check codes must be unique.
	ErrDuplicateCheck = errors.New("duplicate check code")

	// ErrInvalidCheck is returned by [Registry.Add] for definitions
	// missing a code or a New factory.
	ErrInvalidCheck = errors.New("check must have a code and a New factory")
)

// Handler inspects one node during traversal. ancestors is the chain of
// enclosing nodes, outermost first; it is owned by the dispatch engine
// and must not be mutated or retained past the call. A non-nil error is
// isolated into an internal-error offense for this check — it never
// aborts the traversal.
type Handler func(node liquid.Node, ancestors []liquid.Node) error

// Handlers maps node kinds to the handler a check wants invoked for them.
type Handlers map[liquid.NodeKind]Handler

// Definition describes one check. Definitions are registered once at
// process startup and never mutated afterwards.
type Definition struct {
	// Code uniquely identifies the check (e.g. "BlockIdComparison").
	Code string
	// Name is the human-readable title.
	Name string
	// DefaultSeverity applies unless configuration overrides it.
	DefaultSeverity Severity
	// Docs is a short description surfaced in documentation output.
	Docs string
	// Schema declares the check-specific options configuration may set.
	Schema Schema
	// New is evaluated once per (check, file) pair and returns the
	// handlers that file's dispatch table should include.
	New func(ctx *Context) Handlers
}

// Registry holds registered checks in registration order. Registration
// order is the stable tie-break for offense ordering.
type Registry struct {
	mu     sync.RWMutex
	defs   []*Definition
	byCode map[string]*Definition
}

// NewRegistry creates an empty registry. Tests use private registries;
// production checks register into [Default] at init time.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]*Definition)}
}

// Add registers a check definition.
func (r *Registry) Add(d *Definition) error {
	if d == nil || d.Code == "" || d.New == nil {
		return ErrInvalidCheck
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCode[d.Code]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCheck, d.Code)
	}
	r.byCode[d.Code] = d
	r.defs = append(r.defs, d)
	return nil
}

// Definitions returns the registered checks in registration order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for a code, if registered.
func (r *Registry) Lookup(code string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byCode[code]
	return d, ok
}

// Rank returns the registration index of a check code. Unknown codes
// rank after all registered ones.
func (r *Registry) Rank(code string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, d := range r.defs {
		if d.Code == code {
			return i
		}
	}
	return len(r.defs)
}

// Codes returns the registered check codes in registration order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Code
	}
	return out
}

// SortedCodes returns the registered check codes alphabetically, for
// documentation listings.
func (r *Registry) SortedCodes() []string {
	out := r.Codes()
	sort.Strings(out)
	return out
}

// defaultRegistry holds the process-wide check catalog.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds a check to the process-wide registry and panics on
// conflict. It is intended for init-time use by check packages.
func Register(d *Definition) {
	if err := defaultRegistry.Add(d); err != nil {
		panic(err)
	}
}
