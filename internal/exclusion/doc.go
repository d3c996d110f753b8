// Package exclusion defines the immutable Policy that decides which files and
// directories the reference scan skips.
package exclusion
