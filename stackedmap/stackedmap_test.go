// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMap(src map[string]string) *StackedMap[string, string] {
	return New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})
}

func TestGetFallsThroughToSource(t *testing.T) {
	sm := newTestMap(map[string]string{"a": "src"})
	sm.Push()

	v, found, err := sm.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "src", v)

	_, found, err = sm.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutShadowsLowerLevels(t *testing.T) {
	sm := newTestMap(map[string]string{"a": "src"})
	sm.Push()
	sm.Put("a", "l0")

	sm.Push()
	sm.Put("a", "l1")

	v, found, _ := sm.Get("a")
	assert.True(t, found)
	assert.Equal(t, "l1", v)

	sm.Pop()
	v, _, _ = sm.Get("a")
	assert.Equal(t, "l0", v)

	sm.Pop()
	v, _, _ = sm.Get("a")
	assert.Equal(t, "src", v)
}

func TestPopTo(t *testing.T) {
	sm := newTestMap(nil)
	base := sm.Push()
	sm.Put("k", "base")

	for i := 0; i < 5; i++ {
		sm.Push()
		sm.Put("k", "nested")
	}
	assert.Equal(t, 6, sm.Depth())

	sm.PopTo(base + 1)
	assert.Equal(t, 1, sm.Depth())
	v, found, _ := sm.Get("k")
	assert.True(t, found)
	assert.Equal(t, "base", v)
}

func TestJournalOrder(t *testing.T) {
	sm := newTestMap(nil)
	sm.Push()
	sm.Put("a", "1")
	sm.Push()
	sm.Put("b", "2")
	sm.Put("a", "3")

	var seen []string
	sm.Journal(func(key, value string) bool {
		seen = append(seen, key+"="+value)
		return true
	})
	assert.Equal(t, []string{"a=1", "b=2", "a=3"}, seen)

	// aborting early stops the walk
	seen = seen[:0]
	sm.Journal(func(key, value string) bool {
		seen = append(seen, key)
		return false
	})
	assert.Equal(t, []string{"a"}, seen)
}

func TestRepeatedPutSameLevel(t *testing.T) {
	sm := newTestMap(nil)
	sm.Push()
	sm.Put("k", "1")
	sm.Put("k", "2")
	sm.Put("k", "3")

	v, found, _ := sm.Get("k")
	assert.True(t, found)
	assert.Equal(t, "3", v)

	sm.Pop()
	_, found, _ = sm.Get("k")
	assert.False(t, found)
}
