package knowledge

import (
	"context"
	"errors"
)

// Client abstracts the external knowledge-query service used for document
// classification and conversational answers. Every call site must have a pure,
// deterministic fallback exercised independently of this client's availability.
type Client interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// ErrTimeout indicates the knowledge service did not answer within the bounded timeout.
var ErrTimeout = errors.New("knowledge query timeout")

// ErrUnavailable indicates the knowledge service rejected or could not serve the call.
var ErrUnavailable = errors.New("knowledge service unavailable")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Query returns ErrUnavailable.
func (PlaceholderClient) Query(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrUnavailable
}
