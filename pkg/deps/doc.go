// Package deps resolves the dependency graphs of installed game mods.
//
// # Overview
//
// Every mod may declare an ordered list of dependencies together with a
// [Layout] that says how far the list has to be expanded:
//
//   - [FullResolved]: the list is already complete, nothing is expanded
//   - [ResolveRecursive]: every listed mod is expanded with its own list
//   - [ResolveLastItem]: only the last listed mod is expanded (a chain)
//
// The package turns those declarations into a load order in three steps:
//
//  1. [Builder] constructs the dependency graph of a single mod, checking each
//     dependency's version against the range it is required under
//  2. [Resolver] detects cycles and caches the first-level resolved
//     dependencies on each [Mod] it can settle
//  3. [Traverse] flattens a resolved mod into a breadth-first load order,
//     keeping only the last occurrence of each mod
//
// [Resolver.ResolveAll] resolves many mods at once and collects failures
// instead of stopping at the first one.
//
// # Resolving
//
//	set := modset.New("skyrim", mods...)
//	r := deps.NewResolver(set, set, deps.Options{Logger: logger})
//	if err := r.Resolve(mod); err != nil {
//	    return err
//	}
//	order, err := deps.Traverse(mod)
//
// # Resolve State
//
// Each [Mod] carries a [Status]. A mod starts at [StatusNone]. A successful
// resolve moves it to [StatusResolved], a dependency cycle to [StatusFaulted].
// Both are terminal. Lookup and version failures ([*NotFoundError],
// [*VersionMismatchError]) leave the status at StatusNone, so a later resolve
// can succeed once the mod set is fixed.
//
// # Errors
//
// All error types implement Code() and work with [errors.GetCode]:
//
//   - [*NotFoundError]: MOD_NOT_FOUND
//   - [*VersionMismatchError]: VERSION_MISMATCH
//   - [*CycleError]: DEPENDENCY_CYCLE
//   - [*InvalidOperationError]: INVALID_OPERATION
//
// [errors.GetCode]: github.com/matzehuels/modstack/pkg/errors.GetCode
package deps
