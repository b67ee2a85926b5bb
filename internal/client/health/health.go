// Package health probes the upload server's gRPC health service.
package health

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name the server registers.
const ServiceName = "linkdrop.Upload"

var ErrNotServing = errors.New("server is not serving")

// Checker pings one server.
type Checker struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// Dial prepares a checker for addr. No connection is made until Ping.
func Dial(addr string, opts ...grpc.DialOption) (*Checker, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("health client for %s: %w", addr, err)
	}
	return &Checker{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil when the server reports SERVING.
func (c *Checker) Ping(ctx context.Context) error {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

func (c *Checker) Close() error {
	return c.conn.Close()
}
