// Package services implements the driving port interfaces.
// Services contain the migration and repair logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external I/O of their own.
package services
