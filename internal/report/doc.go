// Package report renders reference scan results for humans (two-tone text) and
// for tooling (csv, yaml).
package report
