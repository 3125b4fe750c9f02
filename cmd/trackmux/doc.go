// Package main hosts the trackmux CLI.
//
// The Cobra command tree loads configuration once, opens the job store and
// the workspace backend, and hands media package manifests to the
// select-tracks operation. Everything that does real work lives under
// internal/; commands here only parse flags and render results.
package main
