package deps

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(t *testing.T, set fakeSet, m *Mod) *Mod {
	t.Helper()
	require.NoError(t, NewResolver(set, nil, Options{}).Resolve(m))
	return m
}

func TestTraverseRequiresResolved(t *testing.T) {
	a := mod("a")
	_, err := Traverse(a)

	var inv *InvalidOperationError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "traverse", inv.Op)
	assert.Equal(t, StatusNone, a.Status(), "traverse never resolves")
}

func TestTraverseFaultedMod(t *testing.T) {
	a := modWithDeps("a", FullResolved, ref("a"))
	set := fakeSet{}.add(a)
	require.Error(t, NewResolver(set, nil, Options{}).Resolve(a))

	_, err := Traverse(a)
	var inv *InvalidOperationError
	assert.True(t, errors.As(err, &inv))
}

func TestTraverseLeaf(t *testing.T) {
	a := mod("a")
	resolved(t, fakeSet{}.add(a), a)
	order, err := Traverse(a)
	require.NoError(t, err)
	assert.Equal(t, []*Mod{a}, order)
}

func TestTraverseChain(t *testing.T) {
	c := mod("c")
	b := modWithDeps("b", ResolveRecursive, ref("c"))
	a := modWithDeps("a", ResolveRecursive, ref("b"))
	set := fakeSet{}.add(a, b, c)

	order, err := Traverse(resolved(t, set, a))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(order))
}

func TestTraverseDiamond(t *testing.T) {
	d := mod("d")
	b := modWithDeps("b", ResolveRecursive, ref("d"))
	c := modWithDeps("c", ResolveRecursive, ref("d"))
	a := modWithDeps("a", ResolveRecursive, ref("b"), ref("c"))
	set := fakeSet{}.add(a, b, c, d)

	order, err := Traverse(resolved(t, set, a))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(order))
}

// TestTraverseLayeredDiamonds chains t0 -> [l0, r0] -> t1 -> [l1, r1] -> ...
// Every top is reachable along 2^i paths.
func TestTraverseLayeredDiamonds(t *testing.T) {
	const layers = 40

	set := fakeSet{}
	var want []string
	for i := 0; i < layers; i++ {
		n := strconv.Itoa(i)
		next := "t" + strconv.Itoa(i+1)
		set.add(
			modWithDeps("t"+n, ResolveRecursive, ref("l"+n), ref("r"+n)),
			modWithDeps("l"+n, ResolveRecursive, ref(next)),
			modWithDeps("r"+n, ResolveRecursive, ref(next)),
		)
		want = append(want, "t"+n, "l"+n, "r"+n)
	}
	last := "t" + strconv.Itoa(layers)
	set.add(mod(last))
	want = append(want, last)

	root, _ := set.Find(ref("t0"))
	resolved(t, set, root)

	assert.LessOrEqual(t, len(flatten(root)), 2*len(want))

	order, err := Traverse(root)
	require.NoError(t, err)
	assert.Equal(t, want, ids(order))
}

func TestTraverseKeepsLastOccurrence(t *testing.T) {
	// Breadth-first walk: a b c d e d. Keeping the last d moves it behind e.
	d := mod("d")
	e := mod("e")
	b := modWithDeps("b", ResolveRecursive, ref("d"), ref("e"))
	c := modWithDeps("c", ResolveRecursive, ref("d"))
	a := modWithDeps("a", ResolveRecursive, ref("b"), ref("c"))
	set := fakeSet{}.add(a, b, c, d, e)

	order, err := Traverse(resolved(t, set, a))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "e", "d"}, ids(order))
}

func TestTraverseUnresolvedDependenciesAreLeaves(t *testing.T) {
	d := mod("d")
	b := modWithDeps("b", ResolveRecursive, ref("d"))
	c := mod("c")
	a := modWithDeps("a", FullResolved, ref("b"), ref("c"))
	set := fakeSet{}.add(a, b, c, d)

	order, err := Traverse(resolved(t, set, a))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(order))
	assert.Equal(t, StatusNone, b.Status())
}

func TestTraverseRootFirstExactlyOnce(t *testing.T) {
	leaves := []Reference{ref("b"), ref("c"), ref("d")}
	a := modWithDeps("a", ResolveRecursive, leaves...)
	set := fakeSet{}.add(a, mod("b"), mod("c"), mod("d"))

	order, err := Traverse(resolved(t, set, a))
	require.NoError(t, err)
	require.NotEmpty(t, order)
	assert.Same(t, a, order[0])

	count := 0
	for _, m := range order {
		if m == a {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTraverseDetectsCachedCycle(t *testing.T) {
	a := mod("a")
	b := mod("b")
	a.markResolved([]Entry{{Mod: b}})
	b.markResolved([]Entry{{Mod: a}})

	_, err := Traverse(a)
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"default:a", "default:b", "default:a"}, cycle.Path)
}

func TestDedupKeepLast(t *testing.T) {
	a, b, c := mod("a"), mod("b"), mod("c")
	tests := []struct {
		name string
		in   []*Mod
		want []string
	}{
		{"empty", nil, []string{}},
		{"no duplicates", []*Mod{a, b, c}, []string{"a", "b", "c"}},
		{"duplicate moves back", []*Mod{a, b, c, b}, []string{"a", "c", "b"}},
		{"many duplicates", []*Mod{b, a, b, c, b}, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(dedupKeepLast(tt.in)))
		})
	}
}
