package grpc

import (
	"context"

	"github.com/godilite/clinic-assistant/internal/dialogue"
)

// Engine is the conversation engine served over gRPC.
type Engine interface {
	HandleMessage(ctx context.Context, in dialogue.Incoming) (dialogue.Response, error)
	HandleAction(ctx context.Context, userID int64, data string) (dialogue.Response, error)
}
