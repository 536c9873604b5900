// Package modset provides the installed mod set of one game.
//
// A [Set] is the lookup and normalization collaborator of the resolution
// engine: it implements both [deps.Finder] and [deps.Normalizer]. Sets are
// built in memory with [New] or loaded from a TOML or YAML manifest with
// [Load].
package modset

import (
	"path"
	"strings"

	"github.com/matzehuels/modstack/pkg/deps"
	errs "github.com/matzehuels/modstack/pkg/errors"
)

var (
	_ deps.Finder     = (*Set)(nil)
	_ deps.Normalizer = (*Set)(nil)
)

// Set holds the installed mods of one game, keyed by normalized identity.
type Set struct {
	game  string
	mods  map[string]*deps.Mod
	order []*deps.Mod
}

// New creates a set for game holding mods. Mod identifiers must already be
// normalized (see [NormalizeID]).
func New(game string, mods ...*deps.Mod) (*Set, error) {
	s := &Set{game: game, mods: make(map[string]*deps.Mod, len(mods))}
	for _, m := range mods {
		if err := s.Add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts m. Two mods with the same identity are rejected.
func (s *Set) Add(m *deps.Mod) error {
	if _, ok := s.mods[m.Key()]; ok {
		return errs.New(errs.ErrCodeInvalidManifest, "duplicate mod %s", m.Key())
	}
	s.mods[m.Key()] = m
	s.order = append(s.order, m)
	return nil
}

// Game returns the name of the game the set belongs to.
func (s *Set) Game() string { return s.game }

// Find returns the mod matching a normalized reference.
func (s *Set) Find(ref deps.Reference) (*deps.Mod, bool) {
	m, ok := s.mods[ref.Key()]
	return m, ok
}

// Normalize canonicalizes the reference identifier for its kind.
func (s *Set) Normalize(ref deps.Reference) deps.Reference {
	ref.ID = NormalizeID(ref.ID, ref.Kind)
	return ref
}

// Mods returns all mods in insertion order.
func (s *Set) Mods() []*deps.Mod {
	out := make([]*deps.Mod, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of mods.
func (s *Set) Len() int { return len(s.order) }

// Lookup finds a mod by a user-supplied name. The name may carry a kind
// prefix ("workshops:1234"); without one, every kind is tried in order
// default, workshops, virtual.
func (s *Set) Lookup(name string) (*deps.Mod, error) {
	if prefix, id, ok := strings.Cut(name, ":"); ok && prefix != "" {
		if kind, err := deps.ParseKind(prefix); err == nil {
			if m, ok := s.Find(s.Normalize(deps.Reference{ID: id, Kind: kind})); ok {
				return m, nil
			}
			return nil, errs.New(errs.ErrCodeModNotFound, "mod %q not found in game %q", name, s.game)
		}
	}
	for _, kind := range []deps.Kind{deps.KindDefault, deps.KindWorkshops, deps.KindVirtual} {
		if m, ok := s.Find(s.Normalize(deps.Reference{ID: name, Kind: kind})); ok {
			return m, nil
		}
	}
	return nil, errs.New(errs.ErrCodeModNotFound, "mod %q not found in game %q", name, s.game)
}

// NormalizeID canonicalizes an identifier of the given kind:
//
//   - default: slash separators, cleaned path, lower case
//   - workshops: surrounding space removed
//   - virtual: surrounding space removed, lower case
func NormalizeID(id string, kind deps.Kind) string {
	id = strings.TrimSpace(id)
	switch kind {
	case deps.KindWorkshops:
		return id
	case deps.KindVirtual:
		return strings.ToLower(id)
	default:
		if id == "" {
			return id
		}
		return strings.ToLower(path.Clean(strings.ReplaceAll(id, `\`, "/")))
	}
}
