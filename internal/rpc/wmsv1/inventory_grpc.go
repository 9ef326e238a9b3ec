package wmsv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	InventoryService_ApplyMovement_FullMethodName = "/wms.v1.InventoryService/ApplyMovement"
	InventoryService_ListMovements_FullMethodName = "/wms.v1.InventoryService/ListMovements"
)

type InventoryServiceClient interface {
	ApplyMovement(ctx context.Context, in *ApplyMovementRequest, opts ...grpc.CallOption) (*Movement, error)
	ListMovements(ctx context.Context, in *ListMovementsRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc}
}

func (c *inventoryServiceClient) ApplyMovement(ctx context.Context, in *ApplyMovementRequest, opts ...grpc.CallOption) (*Movement, error) {
	out := new(Movement)
	if err := c.cc.Invoke(ctx, InventoryService_ApplyMovement_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) ListMovements(ctx context.Context, in *ListMovementsRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error) {
	out := new(ListMovementsResponse)
	if err := c.cc.Invoke(ctx, InventoryService_ListMovements_FullMethodName, in, out, CallOptions(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

type InventoryServiceServer interface {
	ApplyMovement(context.Context, *ApplyMovementRequest) (*Movement, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
}

type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) ApplyMovement(context.Context, *ApplyMovementRequest) (*Movement, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyMovement not implemented")
}

func (UnimplementedInventoryServiceServer) ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMovements not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

func _InventoryService_ApplyMovement_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyMovementRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).ApplyMovement(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InventoryService_ApplyMovement_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServiceServer).ApplyMovement(ctx, req.(*ApplyMovementRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _InventoryService_ListMovements_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListMovementsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).ListMovements(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InventoryService_ListMovements_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServiceServer).ListMovements(ctx, req.(*ListMovementsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "wms.v1.InventoryService",
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ApplyMovement", Handler: _InventoryService_ApplyMovement_Handler},
		{MethodName: "ListMovements", Handler: _InventoryService_ListMovements_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wms/v1/inventory.proto",
}
