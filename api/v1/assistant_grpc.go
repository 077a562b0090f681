package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "clinic.v1.Assistant"

	Assistant_HandleMessage_FullMethodName = "/clinic.v1.Assistant/HandleMessage"
	Assistant_HandleAction_FullMethodName  = "/clinic.v1.Assistant/HandleAction"
)

// AssistantClient is the client API for the Assistant service.
type AssistantClient interface {
	HandleMessage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	HandleAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type assistantClient struct {
	cc grpc.ClientConnInterface
}

func NewAssistantClient(cc grpc.ClientConnInterface) AssistantClient {
	return &assistantClient{cc}
}

func (c *assistantClient) HandleMessage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Assistant_HandleMessage_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assistantClient) HandleAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Assistant_HandleAction_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AssistantServer is the server API for the Assistant service.
type AssistantServer interface {
	HandleMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HandleAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAssistantServer can be embedded to have forward compatible implementations.
type UnimplementedAssistantServer struct{}

func (UnimplementedAssistantServer) HandleMessage(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleMessage not implemented")
}

func (UnimplementedAssistantServer) HandleAction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleAction not implemented")
}

func RegisterAssistantServer(s grpc.ServiceRegistrar, srv AssistantServer) {
	s.RegisterService(&Assistant_ServiceDesc, srv)
}

func _Assistant_HandleMessage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).HandleMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Assistant_HandleMessage_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).HandleMessage(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Assistant_HandleAction_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).HandleAction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Assistant_HandleAction_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).HandleAction(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Assistant_ServiceDesc is the grpc.ServiceDesc for the Assistant service.
var Assistant_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "HandleMessage",
			Handler:    _Assistant_HandleMessage_Handler,
		},
		{
			MethodName: "HandleAction",
			Handler:    _Assistant_HandleAction_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clinic/v1/assistant.proto",
}
