package healthz

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// Path is where the gateway registers the health endpoint.
const Path = "/healthz"

// NewHandler exposes the gRPC health service as GET /healthz[?service=name].
// SERVING answers 200 with the response as JSON. NOT_SERVING answers 503 and
// an unknown service 404.
func NewHandler(client healthpb.HealthClient) http.Handler {
	return runtime.NewServeMux(
		runtime.WithHealthzEndpoint(client),
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONPb{
			MarshalOptions: protojson.MarshalOptions{UseProtoNames: true},
		}),
	)
}
