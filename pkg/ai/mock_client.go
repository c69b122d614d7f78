// pkg/ai/mock_client.go

package ai

import "context"

type mockClient struct{}

// NewMock is used when no provider is configured. Every call fails with
// ErrNotConfigured so callers take their fallback path.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Complete(ctx context.Context, p Prompt) (string, error) {
	return "", ErrNotConfigured
}
