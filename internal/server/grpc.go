package server

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"

	"github.com/fineprint/contract-analyzer/internal/common"
)

const (
	AnalysisServiceName     = "fineprint.v1.AnalysisService"
	analyzeTextFullMethod   = "/" + AnalysisServiceName + "/AnalyzeText"
	getReportFullMethod     = "/" + AnalysisServiceName + "/GetReport"
	requestIDMetadataHeader = "x-request-id"
)

// AnalysisServer is the server API for fineprint.v1.AnalysisService.
type AnalysisServer interface {
	AnalyzeText(context.Context, *AnalyzeTextRequest) (*AnalyzeTextResponse, error)
	GetReport(context.Context, *GetReportRequest) (*GetReportResponse, error)
}

// AnalyzeText implements AnalysisServer.
func (s *AnalysisService) AnalyzeText(ctx context.Context, req *AnalyzeTextRequest) (*AnalyzeTextResponse, error) {
	rep, err := s.analyze(ctx, req)
	if err != nil {
		return nil, common.ToGRPCError(err)
	}
	return &AnalyzeTextResponse{Report: rep}, nil
}

// GetReport implements AnalysisServer.
func (s *AnalysisService) GetReport(ctx context.Context, req *GetReportRequest) (*GetReportResponse, error) {
	rep, err := s.report(ctx, req.ID)
	if err != nil {
		return nil, common.ToGRPCError(err)
	}
	return &GetReportResponse{Report: rep}, nil
}

var analysisServiceDesc = grpc.ServiceDesc{
	ServiceName: AnalysisServiceName,
	HandlerType: (*AnalysisServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AnalyzeText", Handler: analyzeTextHandler},
		{MethodName: "GetReport", Handler: getReportHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fineprint/v1/analysis.proto",
}

// RegisterAnalysisServer attaches srv to a gRPC server.
func RegisterAnalysisServer(s grpc.ServiceRegistrar, srv AnalysisServer) {
	s.RegisterService(&analysisServiceDesc, srv)
}

func analyzeTextHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AnalyzeTextRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServer).AnalyzeText(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: analyzeTextFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalysisServer).AnalyzeText(ctx, req.(*AnalyzeTextRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServer).GetReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getReportFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalysisServer).GetReport(ctx, req.(*GetReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AnalysisClient calls fineprint.v1.AnalysisService using the JSON codec.
type AnalysisClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalysisClient(cc grpc.ClientConnInterface) *AnalysisClient {
	return &AnalysisClient{cc: cc}
}

func (c *AnalysisClient) AnalyzeText(ctx context.Context, in *AnalyzeTextRequest, opts ...grpc.CallOption) (*AnalyzeTextResponse, error) {
	out := new(AnalyzeTextResponse)
	if err := c.cc.Invoke(ctx, analyzeTextFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalysisClient) GetReport(ctx context.Context, in *GetReportRequest, opts ...grpc.CallOption) (*GetReportResponse, error) {
	out := new(GetReportResponse)
	if err := c.cc.Invoke(ctx, getReportFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

// RequestIDUnaryInterceptor stores the caller's x-request-id (or a fresh one) in the context
// and logs each call.
func RequestIDUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(requestIDMetadataHeader); len(v) > 0 {
				id = v[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, id)
		resp, err := handler(ctx, req)
		common.LoggerFromContext(ctx, logger).Info("server.grpc.call", "method", info.FullMethod, "ok", err == nil)
		return resp, err
	}
}

// NewGRPCServer builds a server exposing AnalysisService, the standard health service
// and reflection.
func NewGRPCServer(svc AnalysisServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(RequestIDUnaryInterceptor(logger)))
	RegisterAnalysisServer(gs, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(AnalysisServiceName, healthpb.HealthCheckResponse_SERVING)

	// Reflection for grpcurl
	reflection.Register(gs)
	return gs, hs
}
