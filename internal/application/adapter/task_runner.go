// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// TaskRunner executes CPU-bound work away from request handling.
type TaskRunner interface {
	// Run executes fn and waits for it to finish or for ctx to be done.
	Run(ctx context.Context, fn func() error) error
}
