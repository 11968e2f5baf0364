// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO; all I/O happens behind the
// driven ports, wrapped by the resilience client.
package services
