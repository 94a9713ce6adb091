// Package credential holds the rotating API key pools used by the gateway.
package credential

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"

	ai "github.com/spetersoncode/aigate"
)

// Pool is the ordered set of credentials for a single provider.
// Draw is safe for concurrent use; membership is fixed at construction.
type Pool struct {
	provider ai.Provider
	creds    []ai.Credential
	cursor   atomic.Uint64
}

// Option configures pool construction.
type Option func(*options)

type options struct {
	shuffle bool
	rnd     *rand.Rand
}

// WithRand sets the random source used to shuffle the pool.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rnd = r
	}
}

// WithoutShuffle keeps credentials in configuration order.
func WithoutShuffle() Option {
	return func(o *options) {
		o.shuffle = false
	}
}

// New builds a pool from raw secrets. Blank and duplicate entries are
// dropped (first occurrence wins) and the remainder is shuffled so that
// instances started with the same list spread their load.
func New(provider ai.Provider, secrets []string, opts ...Option) *Pool {
	o := options{shuffle: true}
	for _, opt := range opts {
		opt(&o)
	}

	seen := make(map[string]struct{}, len(secrets))
	creds := make([]ai.Credential, 0, len(secrets))
	for _, s := range secrets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		creds = append(creds, ai.Credential{Provider: provider, Secret: s})
	}

	if o.shuffle && len(creds) > 1 {
		shuffle := rand.Shuffle
		if o.rnd != nil {
			shuffle = o.rnd.Shuffle
		}
		shuffle(len(creds), func(i, j int) {
			creds[i], creds[j] = creds[j], creds[i]
		})
	}

	return &Pool{provider: provider, creds: creds}
}

// Provider returns the provider this pool serves.
func (p *Pool) Provider() ai.Provider {
	return p.provider
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return len(p.creds)
}

// Draw returns the credential at the cursor and advances the cursor by one.
// Concurrent draws may observe the same credential; the cursor itself only
// ever moves forward.
func (p *Pool) Draw() (ai.Credential, error) {
	if p.Size() == 0 {
		var provider ai.Provider
		if p != nil {
			provider = p.provider
		}
		return ai.Credential{}, &ai.ConfigurationError{Provider: provider, Msg: "no credentials configured"}
	}
	n := p.cursor.Add(1) - 1
	return p.creds[n%uint64(len(p.creds))], nil
}
