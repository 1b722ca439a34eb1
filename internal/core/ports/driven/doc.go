// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The detection pipeline talks to its
// collaborators (vectorizer, persistence, cache) only through these
// interfaces, so each is swappable and tests stay hermetic.
package driven
