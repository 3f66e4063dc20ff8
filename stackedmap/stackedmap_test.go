// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dao-ledger/stakerep/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},
		{func() {}, 1, "", "", "missing", M("", false, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(t, test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(t, test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	sm := stackedmap.New(func(key int) (int, bool, error) { return 0, false, nil })

	sm.Put(1, 10)
	depth := sm.Push()
	sm.Put(2, 20)
	sm.Put(1, 11)
	sm.Push()
	sm.Put(3, 30)
	sm.PopTo(depth + 1)

	var journal [][2]int
	sm.Journal(func(k, v int) bool {
		journal = append(journal, [2]int{k, v})
		return true
	})
	assert.Equal(t, [][2]int{{1, 10}, {2, 20}, {1, 11}}, journal)

	v, ok, _ := sm.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 11, v)

	sm.PopTo(depth)
	v, _, _ = sm.Get(1)
	assert.Equal(t, 10, v)
	_, ok, _ = sm.Get(2)
	assert.False(t, ok)

	var first []int
	sm.Push()
	sm.Put(5, 50)
	sm.Journal(func(k, _ int) bool {
		first = append(first, k)
		return false
	})
	assert.Equal(t, []int{1}, first)
}
