package graph

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_NewIsEmpty(t *testing.T) {
	g := New()

	assert.Empty(t, g.Connections())
	assert.Equal(t, Stats{}, g.Stats())
	_, ok := g.Component("A")
	assert.False(t, ok)
}

func TestGraph_ApplyAndQuery(t *testing.T) {
	g := New()

	_, err := g.Apply("A", []Node{"B", "C"})
	require.NoError(t, err)

	assert.Equal(t, conns("A>B", "A>C", "B>A", "B>C", "C>A", "C>B"), g.Connections())
	assert.True(t, g.Connected("C", "A"))
	assert.False(t, g.Connected("A", "A"))

	members, ok := g.Component("B")
	require.True(t, ok)
	assert.Equal(t, []Node{"A", "B", "C"}, members)

	assert.Equal(t, Stats{Nodes: 3, Connections: 6, Components: 1}, g.Stats())
}

func TestGraph_ApplyRejected(t *testing.T) {
	g := New()

	_, err := g.Apply("x", []Node{"x"})

	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Empty(t, g.Connections())
}

func TestGraph_ConcurrentApplyProducesSingleClique(t *testing.T) {
	g := New()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Every operation touches the shared hub, so all nodes end up in one component
				_, err := g.Apply("hub", []Node{fmt.Sprintf("w%d-%d", w, i)})
				assert.NoError(t, err)
			}
		}(w)
	}

	// Readers run alongside writers and must always see a symmetric store
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				list := g.Connections()
				seen := make(map[Connection]bool, len(list))
				for _, c := range list {
					seen[c] = true
				}
				for c := range seen {
					if !seen[c.Reverse()] {
						t.Errorf("reader observed asymmetric connection %s", c)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	n := workers*perWorker + 1
	stats := g.Stats()
	assert.Equal(t, n, stats.Nodes)
	assert.Equal(t, 1, stats.Components)
	assert.Equal(t, n*(n-1), stats.Connections)
}
