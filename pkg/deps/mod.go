package deps

import (
	"slices"

	"github.com/matzehuels/modstack/pkg/semver"
)

// ModInfo is the declared metadata of a mod, as produced by metadata parsing.
type ModInfo struct {
	ID       string         // Normalized identifier (path, workshop id or name)
	Kind     Kind           // How the mod is installed
	Name     string         // Display name (optional)
	Version  semver.Version // Concrete version (zero when unknown)
	Declared *Declaration   // Declared dependencies (nil when none)
}

// Mod is an installed mod of one game.
//
// Its metadata is read-only. The resolve state (Dependencies and Status) is
// owned by the engine and written only by [Resolver]; there are no exported
// setters.
type Mod struct {
	info ModInfo
	key  string

	deps   []Entry
	status Status
}

// NewMod creates a mod with StatusNone and no resolved dependencies.
func NewMod(info ModInfo) *Mod {
	return &Mod{info: info, key: Key(info.ID, info.Kind)}
}

// ID returns the mod identifier.
func (m *Mod) ID() string { return m.info.ID }

// Kind returns how the mod is installed.
func (m *Mod) Kind() Kind { return m.info.Kind }

// Name returns the display name, falling back to the identifier.
func (m *Mod) Name() string {
	if m.info.Name != "" {
		return m.info.Name
	}
	return m.info.ID
}

// Version returns the concrete version, zero when unknown.
func (m *Mod) Version() semver.Version { return m.info.Version }

// Declared returns the declared dependency list, or nil.
func (m *Mod) Declared() *Declaration { return m.info.Declared }

// Key returns the identity string used as graph vertex ID.
func (m *Mod) Key() string { return m.key }

// Ref returns an unranged reference to this mod.
func (m *Mod) Ref() Reference { return Reference{ID: m.info.ID, Kind: m.info.Kind} }

// Status returns the resolve state.
func (m *Mod) Status() Status { return m.status }

// Dependencies returns a copy of the first-level resolved dependencies in
// declaration order. Empty unless Status is StatusResolved.
func (m *Mod) Dependencies() []Entry { return slices.Clone(m.deps) }

func (m *Mod) String() string { return m.key }

// markResolved records the resolve verdict. Only the Resolver calls it.
func (m *Mod) markResolved(deps []Entry) {
	m.deps = deps
	m.status = StatusResolved
}

// markFaulted records a cycle verdict. Only the Resolver calls it.
func (m *Mod) markFaulted() {
	m.status = StatusFaulted
}
