package grpc

// proto.go hand-writes the service descriptor for paysphere.risk.v1.RiskService.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Full method names.
const (
	ServiceName                  = "paysphere.risk.v1.RiskService"
	RiskServiceAssessTransaction = "/" + ServiceName + "/AssessTransaction"
	RiskServiceListJurisdictions = "/" + ServiceName + "/ListJurisdictions"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	AssessTransaction(context.Context, *AssessTransactionRequest) (*AssessTransactionResponse, error)
	ListJurisdictions(context.Context, *ListJurisdictionsRequest) (*ListJurisdictionsResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) AssessTransaction(context.Context, *AssessTransactionRequest) (*AssessTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessTransaction not implemented")
}
func (UnimplementedRiskServiceServer) ListJurisdictions(context.Context, *ListJurisdictionsRequest) (*ListJurisdictionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListJurisdictions not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessTransaction", Handler: _RiskService_AssessTransaction_Handler},
		{MethodName: "ListJurisdictions", Handler: _RiskService_ListJurisdictions_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskService_AssessTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).AssessTransaction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskServiceAssessTransaction}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).AssessTransaction(ctx, req.(*AssessTransactionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_ListJurisdictions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListJurisdictionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ListJurisdictions(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskServiceListJurisdictions}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).ListJurisdictions(ctx, req.(*ListJurisdictionsRequest))
	}
	return interceptor(ctx, req, info, handler)
}
