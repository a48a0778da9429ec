// Package domain contains the core entities shared across the service: the
// input type enumeration, findings, the safety report and its per-type
// metadata variants. These types represent business concepts and are
// intentionally free of infrastructure concerns.
package domain
