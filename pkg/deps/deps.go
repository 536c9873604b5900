package deps

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/semver"
)

// Options configures the engine.
type Options struct {
	// Logger receives Debug-level progress (graph sizes, cache hits).
	// Errors returned by the engine are never logged. Default: discard.
	Logger *log.Logger
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

// Kind distinguishes how a mod is installed and therefore how its identifier
// is interpreted.
type Kind int

const (
	// KindDefault is a mod installed in the game's mods directory,
	// identified by its path.
	KindDefault Kind = iota
	// KindWorkshops is a mod installed from the workshop, identified by its
	// numeric item id.
	KindWorkshops
	// KindVirtual is a mod that exists only as a named grouping of other mods.
	KindVirtual
)

var kindNames = map[Kind]string{
	KindDefault:   "default",
	KindWorkshops: "workshops",
	KindVirtual:   "virtual",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a mod kind name. Matching is case-insensitive and the
// empty string is [KindDefault].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return KindDefault, nil
	case "workshops", "workshop", "steam":
		return KindWorkshops, nil
	case "virtual":
		return KindVirtual, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidMod, "unknown mod kind %q", s)
}

// Layout controls how far the graph builder expands past the declared
// dependency list it is attached to.
type Layout int

const (
	// FullResolved means the list is already complete: none of the listed
	// mods are expanded further.
	FullResolved Layout = iota
	// ResolveRecursive expands every listed mod.
	ResolveRecursive
	// ResolveLastItem expands only the last listed mod, which continues the
	// chain.
	ResolveLastItem
)

var layoutNames = map[Layout]string{
	FullResolved:     "full-resolved",
	ResolveRecursive: "resolve-recursive",
	ResolveLastItem:  "resolve-last-item",
}

func (l Layout) String() string {
	if s, ok := layoutNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout parses a layout name such as "resolve-recursive".
// Dashes, underscores and case are ignored, so "ResolveRecursive" and
// "resolve_recursive" are accepted too. The empty string is [FullResolved].
func ParseLayout(s string) (Layout, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "", "fullresolved":
		return FullResolved, nil
	case "resolverecursive", "recursive":
		return ResolveRecursive, nil
	case "resolvelastitem", "lastitem":
		return ResolveLastItem, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidManifest, "unknown resolve layout %q", s)
}

// expands reports whether the i-th of n references declared under l is
// expanded further.
func (l Layout) expands(i, n int) bool {
	switch l {
	case ResolveRecursive:
		return true
	case ResolveLastItem:
		return i == n-1
	default:
		return false
	}
}

// Key returns the identity string of a mod with the given identifier and
// kind. The identifier is expected to be normalized already.
func Key(id string, kind Kind) string {
	return kind.String() + ":" + id
}

// Reference names a mod without resolving it to a concrete instance.
// A zero Range means the reference accepts any version.
type Reference struct {
	ID    string
	Kind  Kind
	Range semver.Constraint
}

// Key returns the identity string of the referenced mod.
// Only meaningful for normalized references.
func (r Reference) Key() string { return Key(r.ID, r.Kind) }

func (r Reference) String() string {
	if r.Range.IsZero() {
		return r.Key()
	}
	return r.Key() + " " + r.Range.String()
}

// Declaration is the ordered dependency list a mod declares together with
// the layout governing its expansion. It is immutable once constructed.
type Declaration struct {
	layout Layout
	refs   []Reference
}

// NewDeclaration creates a declaration. refs is copied.
func NewDeclaration(layout Layout, refs ...Reference) *Declaration {
	return &Declaration{layout: layout, refs: slices.Clone(refs)}
}

// Layout returns the expansion policy.
func (d *Declaration) Layout() Layout { return d.layout }

// Refs returns a copy of the declared references in declaration order.
func (d *Declaration) Refs() []Reference { return slices.Clone(d.refs) }

// Len returns the number of declared references.
func (d *Declaration) Len() int { return len(d.refs) }

// Status is the resolve state of a mod.
type Status int

const (
	// StatusNone means the mod has not been resolved, or the last attempt
	// aborted before reaching a verdict.
	StatusNone Status = iota
	// StatusResolved means Dependencies holds the mod's first-level
	// resolved dependencies. Terminal.
	StatusResolved
	// StatusFaulted means the mod's dependency graph contains a cycle. Terminal.
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusResolved:
		return "resolved"
	case StatusFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Entry is a concrete resolved dependency and the range it was required under.
type Entry struct {
	Mod   *Mod
	Range semver.Constraint
}
