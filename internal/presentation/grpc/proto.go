package grpc

// proto.go defines the gRPC server interface for churn.v1.ChurnService. Messages
// are plain Go structs carried by the JSON codec in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "churn.v1.ChurnService"

// ChurnServiceServer is the server API for ChurnService.
type ChurnServiceServer interface {
	ScoreClient(context.Context, *ScoreClientRequest) (*ScoreClientResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	ListPredictions(context.Context, *ListPredictionsRequest) (*ListPredictionsResponse, error)
	ResetPredictions(context.Context, *ResetPredictionsRequest) (*ResetPredictionsResponse, error)
	mustEmbedUnimplementedChurnServiceServer()
}

// UnimplementedChurnServiceServer provides forward-compatible default implementations.
type UnimplementedChurnServiceServer struct{}

func (UnimplementedChurnServiceServer) ScoreClient(context.Context, *ScoreClientRequest) (*ScoreClientResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreClient not implemented")
}
func (UnimplementedChurnServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedChurnServiceServer) ListPredictions(context.Context, *ListPredictionsRequest) (*ListPredictionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListPredictions not implemented")
}
func (UnimplementedChurnServiceServer) ResetPredictions(context.Context, *ResetPredictionsRequest) (*ResetPredictionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ResetPredictions not implemented")
}
func (UnimplementedChurnServiceServer) mustEmbedUnimplementedChurnServiceServer() {}

// RegisterChurnServiceServer registers the ChurnServiceServer with the gRPC server.
func RegisterChurnServiceServer(s grpclib.ServiceRegistrar, srv ChurnServiceServer) {
	s.RegisterService(&_ChurnService_serviceDesc, srv)
}

var _ChurnService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChurnServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreClient", Handler: _ChurnService_ScoreClient_Handler},
		{MethodName: "GetPrediction", Handler: _ChurnService_GetPrediction_Handler},
		{MethodName: "ListPredictions", Handler: _ChurnService_ListPredictions_Handler},
		{MethodName: "ResetPredictions", Handler: _ChurnService_ResetPredictions_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _ChurnService_ScoreClient_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreClientRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).ScoreClient(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ScoreClient"}
	return interceptor(ctx, req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).ScoreClient(ctx, req.(*ScoreClientRequest))
	})
}

func _ChurnService_GetPrediction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetPredictionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).GetPrediction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetPrediction"}
	return interceptor(ctx, req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).GetPrediction(ctx, req.(*GetPredictionRequest))
	})
}

func _ChurnService_ListPredictions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListPredictionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).ListPredictions(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListPredictions"}
	return interceptor(ctx, req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).ListPredictions(ctx, req.(*ListPredictionsRequest))
	})
}

func _ChurnService_ResetPredictions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ResetPredictionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).ResetPredictions(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ResetPredictions"}
	return interceptor(ctx, req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).ResetPredictions(ctx, req.(*ResetPredictionsRequest))
	})
}
