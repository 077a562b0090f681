package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultPort = 50051

type Option func(*Options)

type Options struct {
	port              int
	listener          net.Listener
	logger            *zap.Logger
	reflection        bool
	unaryInterceptors []grpc.UnaryServerInterceptor
	enableLogging     bool
	maxRecvMsgSize    int
}

func WithPort(port int) Option {
	return func(o *Options) { o.port = port }
}

// WithListener serves on an existing listener instead of opening a port.
func WithListener(lis net.Listener) Option {
	return func(o *Options) { o.listener = lis }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

func WithReflection(enabled bool) Option {
	return func(o *Options) { o.reflection = enabled }
}

func WithUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) Option {
	return func(o *Options) { o.unaryInterceptors = append(o.unaryInterceptors, interceptors...) }
}

func WithLogging(enabled bool) Option {
	return func(o *Options) { o.enableLogging = enabled }
}

// WithMaxRecvMsgSize caps inbound message size in bytes (default 1 MiB).
func WithMaxRecvMsgSize(n int) Option {
	return func(o *Options) { o.maxRecvMsgSize = n }
}

type Server struct {
	grpcServer   *grpc.Server
	lis          net.Listener
	logger       *zap.Logger
	healthServer *health.Server
	errs         chan error

	mu       sync.Mutex
	services []string
}

// New creates a gRPC server with request ids, panic recovery, optional access
// logging and the standard health service.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:           defaultPort,
		logger:         zap.NewNop(),
		maxRecvMsgSize: 1 << 20,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lis, err := listen(options)
	if err != nil {
		return nil, err
	}

	interceptors := []grpc.UnaryServerInterceptor{
		RequestIDInterceptor(),
		RecoveryInterceptor(logger.Named("grpc-recovery")),
	}
	if options.enableLogging {
		interceptors = append(interceptors, LoggingInterceptor(logger.Named("grpc-access")))
	}
	interceptors = append(interceptors, options.unaryInterceptors...)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors...),
		grpc.MaxRecvMsgSize(options.maxRecvMsgSize),
	)
	if options.reflection {
		reflection.Register(grpcServer)
	}

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{
		grpcServer:   grpcServer,
		lis:          lis,
		logger:       logger.Named("grpc-server"),
		healthServer: healthServer,
		errs:         make(chan error, 1),
	}, nil
}

func listen(o *Options) (net.Listener, error) {
	if o.listener != nil {
		return o.listener, nil
	}
	// Port 0 asks the kernel for a free port.
	if o.port < 0 || o.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", o.port)
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", o.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", o.port, err)
	}
	return lis, nil
}

// RegisterService registers a service without a health entry.
func (s *Server) RegisterService(registerFunc func(s *grpc.Server)) {
	registerFunc(s.grpcServer)
}

// RegisterServiceWithHealth registers a service and reports it as SERVING.
func (s *Server) RegisterServiceWithHealth(serviceName string, registerFunc func(s *grpc.Server)) {
	registerFunc(s.grpcServer)
	if serviceName == "" {
		return
	}

	s.mu.Lock()
	s.services = append(s.services, serviceName)
	s.mu.Unlock()

	s.healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("registered service with health check", zap.String("service", serviceName))
}

// SetServing flips the overall status and every registered service at once.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.mu.Lock()
	names := append([]string{""}, s.services...)
	s.mu.Unlock()

	for _, name := range names {
		s.healthServer.SetServingStatus(name, status)
	}
	s.logger.Info("updated health", zap.String("status", status.String()), zap.Int("services", len(names)-1))
}

// Start serves in a goroutine. A serve failure is delivered on Err.
func (s *Server) Start() {
	s.logger.Info("gRPC server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.grpcServer.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("gRPC server failed", zap.Error(err))
			s.errs <- err
		}
	}()
}

// Err reports a failure of the serving goroutine.
func (s *Server) Err() <-chan error {
	return s.errs
}

// Shutdown marks every service NOT_SERVING, then stops gracefully, forcing a
// hard stop when ctx expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC server shutting down")
	s.SetServing(false)

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("forced shutdown due to timeout")
		s.grpcServer.Stop()
		return ctx.Err()
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
