package mocks

import (
	"context"
	"errors"

	"github.com/godilite/clinic-assistant/internal/dialogue"
)

// MockEngine is a function-based mock of the gRPC Engine dependency.
type MockEngine struct {
	HandleMessageFunc func(ctx context.Context, in dialogue.Incoming) (dialogue.Response, error)
	HandleActionFunc  func(ctx context.Context, userID int64, data string) (dialogue.Response, error)
}

func (m *MockEngine) HandleMessage(ctx context.Context, in dialogue.Incoming) (dialogue.Response, error) {
	if m.HandleMessageFunc != nil {
		return m.HandleMessageFunc(ctx, in)
	}
	return dialogue.Response{}, errors.New("HandleMessageFunc not implemented")
}

func (m *MockEngine) HandleAction(ctx context.Context, userID int64, data string) (dialogue.Response, error) {
	if m.HandleActionFunc != nil {
		return m.HandleActionFunc(ctx, userID, data)
	}
	return dialogue.Response{}, errors.New("HandleActionFunc not implemented")
}
