// Package submodules locates and parses submodule manifests (.gitmodules or
// .submodules) and returns the declared submodule paths in declaration order.
//
// Parsing is line oriented and permissive: only `path = value` lines are
// interpreted and malformed declarations are skipped rather than rejected.
package submodules
