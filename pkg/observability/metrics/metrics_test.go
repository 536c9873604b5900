package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/modstack/pkg/deps"
	"github.com/matzehuels/modstack/pkg/modset"
	"github.com/matzehuels/modstack/pkg/observability"
)

// counterValue returns the value of a counter, optionally selected by its
// "result" label.
func counterValue(t *testing.T, c *Collector, name, result string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if result == "" || labelValue(m, "result") == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"plain", errors.New("boom"), "error"},
		{"coded", &deps.NotFoundError{Ref: deps.Reference{ID: "x"}}, "mod_not_found"},
		{"cycle", &deps.CycleError{Mod: deps.NewMod(deps.ModInfo{ID: "a"})}, "dependency_cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, result(tt.err))
		})
	}
}

func TestCollectorRecordsBatch(t *testing.T) {
	c := New()
	c.Install()
	t.Cleanup(observability.Reset)

	leaf := deps.NewMod(deps.ModInfo{ID: "leaf"})
	mid := deps.NewMod(deps.ModInfo{ID: "mid", Declared: deps.NewDeclaration(deps.ResolveRecursive,
		deps.Reference{ID: "leaf"})})
	top := deps.NewMod(deps.ModInfo{ID: "top", Declared: deps.NewDeclaration(deps.ResolveRecursive,
		deps.Reference{ID: "mid"})})
	broken := deps.NewMod(deps.ModInfo{ID: "broken", Declared: deps.NewDeclaration(deps.FullResolved,
		deps.Reference{ID: "gone"})})
	set, err := modset.New("g", leaf, mid, top, broken)
	require.NoError(t, err)

	r := deps.NewResolver(set, set, deps.Options{})
	res := r.ResolveAll([]*deps.Mod{top, broken}, false)
	require.Len(t, res.Failures, 1)

	// mid is already resolved as part of top.
	require.NoError(t, r.Resolve(mid))
	_, err = deps.Traverse(top)
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, c, "modstack_resolve_total", "ok"))
	assert.Equal(t, 1.0, counterValue(t, c, "modstack_resolve_total", "mod_not_found"))
	assert.Equal(t, 2.0, counterValue(t, c, "modstack_resolve_cache_fills_total", ""))
	assert.Equal(t, 1.0, counterValue(t, c, "modstack_resolve_cache_hits_total", ""))
	assert.Equal(t, 1.0, counterValue(t, c, "modstack_traverse_total", "ok"))
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.OnCacheHit("default:a")
	c.OnResolveComplete("default:a", 3, 2, 0, nil)

	path := filepath.Join(t.TempDir(), "modstack.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "modstack_resolve_cache_hits_total 1")
	assert.Contains(t, string(data), `modstack_resolve_total{result="ok"} 1`)
}

func TestWriteTextfileError(t *testing.T) {
	c := New()
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	assert.Error(t, err)
}

func TestBuildInfo(t *testing.T) {
	c := New()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "modstack_build_info" {
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
			return
		}
	}
	t.Fatal("modstack_build_info not registered")
}
