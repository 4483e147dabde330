package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"

	"github.com/bibbank/mortgageflex/internal/application/dto"
)

const serviceName = "mortgageflex.adjustment.v1.AdjustmentService"

// AdjustmentHistoryResponse wraps the history list in a message.
type AdjustmentHistoryResponse struct {
	Adjustments []dto.AdjustmentResponse `json:"adjustments"`
}

// CancelAdjustmentResponse is empty; success is the absence of an error.
type CancelAdjustmentResponse struct{}

// AdjustmentServiceServer is the server API of the adjustment service.
type AdjustmentServiceServer interface {
	ProcessAdjustment(context.Context, *dto.ProcessAdjustmentRequest) (*dto.AdjustmentResponse, error)
	CheckEligibility(context.Context, *dto.CheckEligibilityRequest) (*dto.EligibilityResponse, error)
	GetAdjustmentHistory(context.Context, *dto.AdjustmentHistoryRequest) (*AdjustmentHistoryResponse, error)
	GenerateRecommendation(context.Context, *dto.RecommendationRequest) (*dto.RecommendationResponse, error)
	SimulateAdjustment(context.Context, *dto.SimulationRequest) (*dto.SimulationResponse, error)
	CancelAdjustment(context.Context, *dto.CancelAdjustmentRequest) (*CancelAdjustmentResponse, error)
	GetFinancialInsights(context.Context, *dto.FinancialInsightsRequest) (*dto.FinancialInsightsResponse, error)
}

func RegisterAdjustmentServiceServer(s grpclib.ServiceRegistrar, srv AdjustmentServiceServer) {
	s.RegisterService(&adjustmentServiceDesc, srv)
}

var adjustmentServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AdjustmentServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ProcessAdjustment", Handler: unaryHandler("ProcessAdjustment", AdjustmentServiceServer.ProcessAdjustment)},
		{MethodName: "CheckEligibility", Handler: unaryHandler("CheckEligibility", AdjustmentServiceServer.CheckEligibility)},
		{MethodName: "GetAdjustmentHistory", Handler: unaryHandler("GetAdjustmentHistory", AdjustmentServiceServer.GetAdjustmentHistory)},
		{MethodName: "GenerateRecommendation", Handler: unaryHandler("GenerateRecommendation", AdjustmentServiceServer.GenerateRecommendation)},
		{MethodName: "SimulateAdjustment", Handler: unaryHandler("SimulateAdjustment", AdjustmentServiceServer.SimulateAdjustment)},
		{MethodName: "CancelAdjustment", Handler: unaryHandler("CancelAdjustment", AdjustmentServiceServer.CancelAdjustment)},
		{MethodName: "GetFinancialInsights", Handler: unaryHandler("GetFinancialInsights", AdjustmentServiceServer.GetFinancialInsights)},
	},
	Streams: []grpclib.StreamDesc{},
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryHandler builds the method handler grpc-go would otherwise generate for
// each RPC.
func unaryHandler[Req, Resp any](
	method string,
	call func(AdjustmentServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdjustmentServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AdjustmentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AdjustmentServiceClient calls the service over a connection using the JSON
// codec.
type AdjustmentServiceClient struct {
	cc grpclib.ClientConnInterface
}

func NewAdjustmentServiceClient(cc grpclib.ClientConnInterface) *AdjustmentServiceClient {
	return &AdjustmentServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpclib.ClientConnInterface, method string, in *Req, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdjustmentServiceClient) ProcessAdjustment(ctx context.Context, in *dto.ProcessAdjustmentRequest, opts ...grpclib.CallOption) (*dto.AdjustmentResponse, error) {
	return invoke[dto.ProcessAdjustmentRequest, dto.AdjustmentResponse](ctx, c.cc, "ProcessAdjustment", in, opts)
}

func (c *AdjustmentServiceClient) CheckEligibility(ctx context.Context, in *dto.CheckEligibilityRequest, opts ...grpclib.CallOption) (*dto.EligibilityResponse, error) {
	return invoke[dto.CheckEligibilityRequest, dto.EligibilityResponse](ctx, c.cc, "CheckEligibility", in, opts)
}

func (c *AdjustmentServiceClient) GetAdjustmentHistory(ctx context.Context, in *dto.AdjustmentHistoryRequest, opts ...grpclib.CallOption) (*AdjustmentHistoryResponse, error) {
	return invoke[dto.AdjustmentHistoryRequest, AdjustmentHistoryResponse](ctx, c.cc, "GetAdjustmentHistory", in, opts)
}

func (c *AdjustmentServiceClient) GenerateRecommendation(ctx context.Context, in *dto.RecommendationRequest, opts ...grpclib.CallOption) (*dto.RecommendationResponse, error) {
	return invoke[dto.RecommendationRequest, dto.RecommendationResponse](ctx, c.cc, "GenerateRecommendation", in, opts)
}

func (c *AdjustmentServiceClient) SimulateAdjustment(ctx context.Context, in *dto.SimulationRequest, opts ...grpclib.CallOption) (*dto.SimulationResponse, error) {
	return invoke[dto.SimulationRequest, dto.SimulationResponse](ctx, c.cc, "SimulateAdjustment", in, opts)
}

func (c *AdjustmentServiceClient) CancelAdjustment(ctx context.Context, in *dto.CancelAdjustmentRequest, opts ...grpclib.CallOption) (*CancelAdjustmentResponse, error) {
	return invoke[dto.CancelAdjustmentRequest, CancelAdjustmentResponse](ctx, c.cc, "CancelAdjustment", in, opts)
}

func (c *AdjustmentServiceClient) GetFinancialInsights(ctx context.Context, in *dto.FinancialInsightsRequest, opts ...grpclib.CallOption) (*dto.FinancialInsightsResponse, error) {
	return invoke[dto.FinancialInsightsRequest, dto.FinancialInsightsResponse](ctx, c.cc, "GetFinancialInsights", in, opts)
}
