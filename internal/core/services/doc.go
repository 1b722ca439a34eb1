// Package services contains the application core: the duplicate
// detection pipeline and the pairwise comparison service. Services
// depend only on domain types and ports; adapters are injected at
// startup.
package services
