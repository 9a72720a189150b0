// Package shared holds code used across packages that belongs to no single
// domain layer.
//
// # Structure
//
//   - testutil: log capture, in-memory zip fixtures and a scripted fake CDN
//     used by the probe, patcher and app tests.
//
// Only generic helpers belong here. Domain logic lives in its own package.
package shared
