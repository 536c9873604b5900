package deps

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/semver"
)

// NotFoundError reports a declared reference with no matching installed mod.
// The resolve call is aborted and the root keeps StatusNone.
type NotFoundError struct {
	Ref  Reference // The reference as declared
	Game string    // The game whose mod set was searched
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mod %s not found in game %q", e.Ref, e.Game)
}

func (e *NotFoundError) Code() errs.Code { return errs.ErrCodeModNotFound }

// VersionMismatchError reports a dependency whose version lies outside the
// range its dependent requires. The resolve call is aborted and the root keeps
// StatusNone.
type VersionMismatchError struct {
	Dependent  *Mod
	Dependency *Mod
	Range      semver.Constraint
	Version    semver.Version
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("mod %s requires %s %s, found version %s",
		e.Dependent, e.Dependency, e.Range, e.Version)
}

func (e *VersionMismatchError) Code() errs.Code { return errs.ErrCodeVersionMismatch }

// CycleError reports a dependency cycle. The mod is left StatusFaulted.
type CycleError struct {
	Mod  *Mod
	Path []string // Vertex IDs along the cycle, first and last equal
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle in %s", e.Mod)
	}
	return fmt.Sprintf("dependency cycle in %s: %s", e.Mod, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Code() errs.Code { return errs.ErrCodeDependencyCycle }

// InvalidOperationError reports a caller contract violation, such as
// traversing a mod that has not been resolved.
type InvalidOperationError struct {
	Op     string
	Mod    *Mod
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Mod, e.Reason)
}

func (e *InvalidOperationError) Code() errs.Code { return errs.ErrCodeInvalidOperation }
