// Package chain normalizes heterogeneous broker option-chain payloads into
// one canonical strike ladder.
package chain

import (
	"sort"
	"time"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// RawChain is the adapter output before expiry selection and windowing. Legs
// may span multiple expiries; the normalizer picks one.
type RawChain struct {
	SpotPrice float64
	Expiries  []time.Time
	Legs      []models.OptionLeg
}

// Adapter parses one source's raw payload shape into a RawChain. Adapters
// never branch on payload shape outside their own Parse; analytics code sees
// only the canonical form. Parsing is defensive: missing or non-finite
// numeric fields become zero and the issue is recorded, never propagated as
// NaN.
type Adapter interface {
	Source() string
	Parse(payload []byte) (*RawChain, *apperrors.ParseReport, error)
}

// Registry holds the known source adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry preloaded with the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// DefaultRegistry returns a registry with all built-in source adapters.
func DefaultRegistry() *Registry {
	return NewRegistry(&DhanAdapter{}, &RupeezyAdapter{})
}

// Register adds an adapter, replacing any existing one for the same source.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Source()] = a
}

// Lookup returns the adapter for a source tag.
func (r *Registry) Lookup(source string) (Adapter, error) {
	a, ok := r.adapters[source]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrUnknownSource, "source %q", source)
	}
	return a, nil
}

// Sources lists the registered source tags in stable order.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.adapters))
	for s := range r.adapters {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
