package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/semver"
)

// fakeSet is an in-memory mod set keyed by mod key.
type fakeSet map[string]*Mod

func (s fakeSet) Find(ref Reference) (*Mod, bool) {
	m, ok := s[ref.Key()]
	return m, ok
}

func (s fakeSet) Game() string { return "testgame" }

func (s fakeSet) add(mods ...*Mod) fakeSet {
	for _, m := range mods {
		s[m.Key()] = m
	}
	return s
}

func ref(id string) Reference { return Reference{ID: id} }

func rangedRef(id, rng string) Reference {
	return Reference{ID: id, Range: semver.MustParseConstraint(rng)}
}

func mod(id string) *Mod { return NewMod(ModInfo{ID: id}) }

func modWithDeps(id string, layout Layout, refs ...Reference) *Mod {
	return NewMod(ModInfo{ID: id, Declared: NewDeclaration(layout, refs...)})
}

func versioned(id, version string) *Mod {
	return NewMod(ModInfo{ID: id, Version: semver.MustParseVersion(version)})
}

func ids(mods []*Mod) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.ID()
	}
	return out
}

func entryIDs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Mod.ID()
	}
	return out
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"", FullResolved, false},
		{"full-resolved", FullResolved, false},
		{"FullResolved", FullResolved, false},
		{"resolve_recursive", ResolveRecursive, false},
		{"recursive", ResolveRecursive, false},
		{"Resolve Last Item", ResolveLastItem, false},
		{"last-item", ResolveLastItem, false},
		{"sideways", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLayout(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidManifest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParseLayout(t, got.String()))
		})
	}
}

func mustParseLayout(t *testing.T, s string) Layout {
	t.Helper()
	l, err := ParseLayout(s)
	require.NoError(t, err)
	return l
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindDefault, false},
		{"default", KindDefault, false},
		{"Workshops", KindWorkshops, false},
		{"steam", KindWorkshops, false},
		{"virtual", KindVirtual, false},
		{"plugin", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidMod))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutExpands(t *testing.T) {
	tests := []struct {
		layout Layout
		n      int
		want   []bool
	}{
		{FullResolved, 3, []bool{false, false, false}},
		{ResolveRecursive, 3, []bool{true, true, true}},
		{ResolveLastItem, 3, []bool{false, false, true}},
		{ResolveLastItem, 1, []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, tt.layout.expands(i, tt.n), "i=%d", i)
			}
		})
	}
}

func TestKeyDistinguishesKinds(t *testing.T) {
	a := Key("123", KindDefault)
	b := Key("123", KindWorkshops)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "workshops:123", b)
}

func TestDeclarationIsImmutable(t *testing.T) {
	refs := []Reference{ref("b"), ref("c")}
	d := NewDeclaration(ResolveRecursive, refs...)
	refs[0] = ref("x")

	got := d.Refs()
	assert.Equal(t, "b", got[0].ID)
	got[1] = ref("y")
	assert.Equal(t, "c", d.Refs()[1].ID)
	assert.Equal(t, 2, d.Len())
}

func TestModName(t *testing.T) {
	assert.Equal(t, "a", mod("a").Name())
	named := NewMod(ModInfo{ID: "a", Name: "Alpha"})
	assert.Equal(t, "Alpha", named.Name())
	assert.Equal(t, StatusNone, named.Status())
	assert.Empty(t, named.Dependencies())
}

func TestErrorCodes(t *testing.T) {
	a := mod("a")
	tests := []struct {
		name string
		err  error
		code errs.Code
	}{
		{"not found", &NotFoundError{Ref: ref("x"), Game: "g"}, errs.ErrCodeModNotFound},
		{"mismatch", &VersionMismatchError{Dependent: a, Dependency: a}, errs.ErrCodeVersionMismatch},
		{"cycle", &CycleError{Mod: a, Path: []string{"a", "a"}}, errs.ErrCodeDependencyCycle},
		{"invalid op", &InvalidOperationError{Op: "traverse", Mod: a}, errs.ErrCodeInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, errs.GetCode(tt.err))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestCycleErrorMessage(t *testing.T) {
	err := &CycleError{Mod: mod("a"), Path: []string{"default:a", "default:b", "default:a"}}
	assert.Equal(t, "dependency cycle in default:a: default:a -> default:b -> default:a", err.Error())
}
