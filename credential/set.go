package credential

import (
	"slices"

	ai "github.com/spetersoncode/aigate"
)

// Set owns one Pool per provider.
type Set struct {
	pools map[ai.Provider]*Pool
}

// NewSet builds a pool for every provider in secrets.
func NewSet(secrets map[ai.Provider][]string, opts ...Option) *Set {
	s := &Set{pools: make(map[ai.Provider]*Pool, len(secrets))}
	for provider, list := range secrets {
		s.pools[provider] = New(provider, list, opts...)
	}
	return s
}

// Pool returns the pool for provider, or nil if none was configured.
func (s *Set) Pool(provider ai.Provider) *Pool {
	return s.pools[provider]
}

// Size returns the pool size for provider; 0 if it has no pool.
func (s *Set) Size(provider ai.Provider) int {
	return s.pools[provider].Size()
}

// Draw takes the next credential for provider.
// It fails with *aigate.ConfigurationError when the provider has no credentials.
func (s *Set) Draw(provider ai.Provider) (ai.Credential, error) {
	p, ok := s.pools[provider]
	if !ok {
		return ai.Credential{}, &ai.ConfigurationError{Provider: provider, Msg: "no credentials configured"}
	}
	return p.Draw()
}

// Providers returns the providers with at least one credential, sorted.
func (s *Set) Providers() []ai.Provider {
	var out []ai.Provider
	for provider, p := range s.pools {
		if p.Size() > 0 {
			out = append(out, provider)
		}
	}
	slices.Sort(out)
	return out
}
