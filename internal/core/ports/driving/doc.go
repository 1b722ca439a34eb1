// Package driving provides interfaces for the application's entry
// points (primary/inbound ports). The CLI drives the pipeline through
// these interfaces.
package driving
