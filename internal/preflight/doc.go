// Package preflight provides readiness checks for the binaries, directories
// and storage settings trackmux depends on.
//
// The select command runs RunAll before dispatching any job so a doomed run
// fails before it adds tracks to the manifest. The check command prints the
// same results as a table.
package preflight
