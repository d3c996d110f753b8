// Package scanner walks a repository tree, honoring an exclusion.Policy, and
// records which files mention each declared submodule path.
//
// Matching is plain, case-sensitive substring containment over leniently
// decoded file content. Per-file failures never abort a scan; they are counted
// in ScanResult and otherwise treated as files without matches. Scans may fan
// the read-and-match step out to a bounded worker pool while keeping results in
// traversal order.
package scanner
