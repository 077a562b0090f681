package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const assistantService = "clinic.v1.Assistant"

// startBuffered runs a server on an in-memory listener and returns a client
// connection to it.
func startBuffered(t *testing.T, opts ...Option) (*Server, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv, err := New(append([]Option{WithListener(lis), WithLogger(zaptest.NewLogger(t))}, opts...)...)
	require.NoError(t, err)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, conn
}

func healthOf(t *testing.T, conn *grpc.ClientConn, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestNew_PortValidation(t *testing.T) {
	_, err := New(WithPort(70000))
	assert.ErrorContains(t, err, "invalid port")

	_, err = New(WithPort(-1))
	assert.Error(t, err)
}

func TestNew_EphemeralPort(t *testing.T) {
	srv, err := New(WithPort(0))
	require.NoError(t, err)
	defer srv.lis.Close()

	addr, ok := srv.Addr().(*net.TCPAddr)
	require.True(t, ok)
	assert.NotZero(t, addr.Port)
}

func TestServer_HealthLifecycle(t *testing.T) {
	srv, conn := startBuffered(t)
	srv.RegisterServiceWithHealth(assistantService, func(s *grpc.Server) {})
	srv.Start()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthOf(t, conn, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthOf(t, conn, assistantService))

	srv.SetServing(false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthOf(t, conn, assistantService))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthOf(t, conn, ""))

	srv.SetServing(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthOf(t, conn, assistantService))

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-srv.Err():
		t.Fatalf("graceful stop reported a serve error: %v", err)
	default:
	}
}

func TestServer_ShutdownMarksServicesNotServing(t *testing.T) {
	srv, _ := startBuffered(t)
	srv.RegisterServiceWithHealth(assistantService, func(s *grpc.Server) {})

	require.NoError(t, srv.Shutdown(context.Background()))

	resp, err := srv.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: assistantService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestServer_RegisterServiceWithoutHealth(t *testing.T) {
	srv, _ := startBuffered(t)
	defer srv.Shutdown(context.Background())

	var got *grpc.Server
	srv.RegisterService(func(s *grpc.Server) { got = s })

	assert.Same(t, srv.grpcServer, got)
	_, err := srv.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "unregistered"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_InterceptorChainRunsOnCalls(t *testing.T) {
	var seenID string
	capture := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seenID = RequestIDFromContext(ctx)
		return handler(ctx, req)
	}
	srv, conn := startBuffered(t, WithLogging(true), WithUnaryInterceptors(capture))
	srv.Start()
	defer srv.Shutdown(context.Background())

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "chain-1")
	_, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header))

	require.NoError(t, err)
	assert.Equal(t, "chain-1", seenID, "custom interceptors run after the request id is set")
	assert.Equal(t, []string{"chain-1"}, header.Get(RequestIDHeader))
}
