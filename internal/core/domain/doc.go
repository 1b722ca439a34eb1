// Package domain contains the core business entities and value types
// for duplicate detection. Domain types have no dependencies on
// infrastructure; adapters translate to and from these types at the
// boundaries.
package domain
