package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client checks the health of a running kitchen service over gRPC.
type Client struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// MustNewClient creates a client for grpc.kitchen_addr.
func MustNewClient() *Client {
	addr := viper.GetString("grpc.kitchen_addr")
	if addr == "" {
		addr = "localhost:" + viper.GetString("server.grpc.port")
	}

	return MustDial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// MustDial creates a client for addr with the given dial options.
func MustDial(addr string, opts ...grpc.DialOption) *Client {
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gRPC client for %s: %v", addr, err))
	}

	slog.Debug("gRPC client created", "address", addr)

	return &Client{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}

// HealthClient exposes the raw health stub, e.g. for the HTTP healthz gateway.
func (c *Client) HealthClient() healthpb.HealthClient {
	return c.client
}

// Check asks for the serving status of service ("" for the whole server).
func (c *Client) Check(ctx context.Context, service string) (*healthpb.HealthCheckResponse, error) {
	ctx, span := otel.Tracer("grpc-client").Start(ctx, "Client.Check")
	defer span.End()

	timeout := viper.GetInt("grpc.timeout_seconds")
	if timeout == 0 {
		timeout = 5
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return nil, fmt.Errorf("failed to check health via gRPC: %w", err)
	}

	return resp, nil
}
