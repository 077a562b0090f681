package grpc

import (
	"context"
	"errors"
	"time"

	pb "github.com/godilite/clinic-assistant/api/v1"
	"github.com/godilite/clinic-assistant/internal/dialogue"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultGRPCTimeout = 10 * time.Second

type AssistantHandlers struct {
	pb.UnimplementedAssistantServer
	engine  Engine
	logger  *zap.Logger
	timeout time.Duration
}

// NewAssistantHandlers initializes the gRPC handlers.
func NewAssistantHandlers(engine Engine, logger *zap.Logger, timeout time.Duration) *AssistantHandlers {
	if engine == nil {
		panic("nil Engine provided to NewAssistantHandlers")
	}
	if timeout <= 0 {
		timeout = defaultGRPCTimeout
	}
	return &AssistantHandlers{
		engine:  engine,
		logger:  logger.Named("grpc-handler"),
		timeout: timeout,
	}
}

func (s *AssistantHandlers) HandleMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.MessageRequest
	if err := pb.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.engine.HandleMessage(ctx, dialogue.Incoming{
		UserID:    in.UserID,
		FirstName: in.FirstName,
		Text:      in.Text,
	})
	if err != nil {
		return nil, s.handleError(ctx, "HandleMessage", err)
	}
	return s.encode("HandleMessage", resp)
}

func (s *AssistantHandlers) HandleAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.ActionRequest
	if err := pb.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if in.Action == "" {
		return nil, status.Error(codes.InvalidArgument, "action is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.engine.HandleAction(ctx, in.UserID, in.Action)
	if err != nil {
		return nil, s.handleError(ctx, "HandleAction", err)
	}
	return s.encode("HandleAction", resp)
}

func (s *AssistantHandlers) encode(op string, resp dialogue.Response) (*structpb.Struct, error) {
	out, err := pb.Encode(toReply(resp))
	if err != nil {
		s.logger.Error("encode reply failed", zap.String("op", op), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode reply")
	}
	return out, nil
}

func (s *AssistantHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, dialogue.ErrInvalidUser):
		return status.Error(codes.InvalidArgument, "user_id is required")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func toReply(resp dialogue.Response) pb.Reply {
	out := pb.Reply{Messages: make([]pb.Message, len(resp.Messages))}
	for i, m := range resp.Messages {
		msg := pb.Message{Text: m.Text, Keyboard: m.Keyboard, Edit: m.Edit}
		if len(m.Inline) > 0 {
			msg.Inline = make([][]pb.Button, len(m.Inline))
			for r, row := range m.Inline {
				msg.Inline[r] = make([]pb.Button, len(row))
				for c, b := range row {
					msg.Inline[r][c] = pb.Button{Text: b.Text, Action: b.Action, URL: b.URL}
				}
			}
		}
		out.Messages[i] = msg
	}
	return out
}
