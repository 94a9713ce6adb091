package credential

import (
	"math/rand/v2"
	"sync"
	"testing"

	ai "github.com/spetersoncode/aigate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretsOf(p *Pool) []string {
	out := make([]string, 0, p.Size())
	for _, c := range p.creds {
		out = append(out, c.Secret)
	}
	return out
}

func TestNewDeduplicates(t *testing.T) {
	p := New(ai.ProviderGoogle, []string{"a", " b ", "", "a", "c", "b"}, WithoutShuffle())

	assert.Equal(t, 3, p.Size())
	assert.Equal(t, []string{"a", "b", "c"}, secretsOf(p))
	assert.Equal(t, ai.ProviderGoogle, p.Provider())
}

func TestNewShuffles(t *testing.T) {
	secrets := []string{"k1", "k2", "k3", "k4", "k5", "k6"}

	p1 := New(ai.ProviderOpenAI, secrets, WithRand(rand.New(rand.NewPCG(1, 2))))
	p2 := New(ai.ProviderOpenAI, secrets, WithRand(rand.New(rand.NewPCG(1, 2))))

	assert.Equal(t, secretsOf(p1), secretsOf(p2), "same seed gives same order")
	assert.ElementsMatch(t, secrets, secretsOf(p1), "shuffle keeps membership")
}

func TestDrawRoundRobin(t *testing.T) {
	p := New(ai.ProviderGoogle, []string{"a", "b", "c"}, WithoutShuffle())

	var got []string
	for range 7 {
		c, err := p.Draw()
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderGoogle, c.Provider)
		got = append(got, c.Secret)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestDrawEmptyPool(t *testing.T) {
	p := New(ai.ProviderAnthropic, nil)

	_, err := p.Draw()
	require.Error(t, err)
	assert.True(t, ai.IsConfiguration(err))
	assert.Contains(t, err.Error(), "anthropic")

	var nilPool *Pool
	_, err = nilPool.Draw()
	assert.True(t, ai.IsConfiguration(err))
	assert.Zero(t, nilPool.Size())
}

func TestDrawConcurrent(t *testing.T) {
	p := New(ai.ProviderGoogle, []string{"a", "b", "c", "d"}, WithoutShuffle())

	const workers, draws = 8, 250
	var (
		mu     sync.Mutex
		counts = map[string]int{}
		wg     sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := map[string]int{}
			for range draws {
				c, err := p.Draw()
				if err != nil {
					t.Error(err)
					return
				}
				local[c.Secret]++
			}
			mu.Lock()
			for k, v := range local {
				counts[k] += v
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// The cursor advanced exactly once per draw, so load is perfectly even.
	assert.Equal(t, uint64(workers*draws), p.cursor.Load())
	for _, secret := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, workers*draws/4, counts[secret], secret)
	}
}

func TestSet(t *testing.T) {
	s := NewSet(map[ai.Provider][]string{
		ai.ProviderGoogle:    {"g1", "g2"},
		ai.ProviderOpenAI:    {"o1"},
		ai.ProviderAnthropic: {},
	}, WithoutShuffle())

	assert.Equal(t, 2, s.Size(ai.ProviderGoogle))
	assert.Equal(t, 1, s.Size(ai.ProviderOpenAI))
	assert.Equal(t, 0, s.Size(ai.ProviderAnthropic))
	assert.Equal(t, 0, s.Size(ai.Provider("mistral")))
	assert.Equal(t, []ai.Provider{ai.ProviderGoogle, ai.ProviderOpenAI}, s.Providers())

	c, err := s.Draw(ai.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "g1", c.Secret)

	_, err = s.Draw(ai.Provider("mistral"))
	assert.True(t, ai.IsConfiguration(err))

	_, err = s.Draw(ai.ProviderAnthropic)
	assert.True(t, ai.IsConfiguration(err))

	assert.NotNil(t, s.Pool(ai.ProviderOpenAI))
	assert.Nil(t, s.Pool(ai.Provider("mistral")))
}
