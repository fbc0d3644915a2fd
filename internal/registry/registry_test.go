package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	// sha1("abc")
	assert.Equal(t, "id_a9993e364706816aba3e25717850c26c9cd0d89d", Hash("abc"))
	assert.Equal(t, Hash("Leite Integral"), Hash("Leite Integral"))
	assert.NotEqual(t, Hash("Leite Integral"), Hash("leite integral"))
}

func TestRegistry(t *testing.T) {
	r := New()

	id := r.ID("Café Pilão 500g")
	assert.Equal(t, Hash("Café Pilão 500g"), id)

	name, ok := r.Name(id)
	assert.True(t, ok)
	assert.Equal(t, "Café Pilão 500g", name)

	_, ok = r.Name("id_unknown")
	assert.False(t, ok)
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := New()
	names := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			assert.Equal(t, Hash(name), r.ID(name))
		}(i)
	}
	wg.Wait()

	for _, name := range names {
		got, ok := r.Name(Hash(name))
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}
}
