package deps

import (
	"errors"
	"fmt"
)

// Failure records a mod whose resolve call returned an error.
type Failure struct {
	Mod *Mod
	Err error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Mod, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// BatchResult summarizes a [Resolver.ResolveAll] call.
type BatchResult struct {
	Failures []Failure // In the order the mods were attempted
	Resolved []*Mod    // Mods resolved by this call
	Skipped  []*Mod    // Mods that were already resolved
	Aborted  bool      // True when the batch stopped at the first failure
}

// OK reports whether no mod failed.
func (r *BatchResult) OK() bool { return len(r.Failures) == 0 }

// Err joins all failures into a single error, or returns nil.
func (r *BatchResult) Err() error {
	if r.OK() {
		return nil
	}
	errList := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errList[i] = f
	}
	return errors.Join(errList...)
}

// ResolveAll resolves every mod of mods that is not already resolved, in order.
//
// Errors are collected rather than returned. With abortOnError the batch stops
// after the first failure; the remaining mods are not attempted. Otherwise
// every mod is attempted.
func (r *Resolver) ResolveAll(mods []*Mod, abortOnError bool) *BatchResult {
	res := &BatchResult{}
	for _, m := range mods {
		if m.Status() == StatusResolved {
			res.Skipped = append(res.Skipped, m)
			continue
		}
		if err := r.Resolve(m); err != nil {
			res.Failures = append(res.Failures, Failure{Mod: m, Err: err})
			if abortOnError {
				res.Aborted = true
				break
			}
			continue
		}
		res.Resolved = append(res.Resolved, m)
	}
	r.logger.Debug("batch resolve finished",
		"resolved", len(res.Resolved), "skipped", len(res.Skipped), "failed", len(res.Failures))
	return res
}
