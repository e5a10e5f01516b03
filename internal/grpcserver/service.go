package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/proof"
)

const ServiceName = "marketplace.v1.Courier"

type ListClaimableRequest struct {
	Limit int `json:"limit"`
}

type ResolveRequest struct {
	Code string `json:"code"`
}

type OrderRequest struct {
	OrderID string `json:"order_id"`
}

type ScanRequest struct {
	OrderID string `json:"order_id"`
	Code    string `json:"code"`
}

type OrderReply struct {
	Order *order.Order `json:"order"`
}

type OrdersReply struct {
	Orders []*order.Order `json:"orders"`
}

type ScanReply struct {
	Result proof.Result `json:"result"`
}

// CourierServer is the server API of marketplace.v1.Courier.
type CourierServer interface {
	ListClaimable(ctx context.Context, req *ListClaimableRequest) (*OrdersReply, error)
	ResolveByCode(ctx context.Context, req *ResolveRequest) (*OrderReply, error)
	TryClaim(ctx context.Context, req *OrderRequest) (*OrderReply, error)
	StartDelivery(ctx context.Context, req *OrderRequest) (*OrderReply, error)
	Scan(ctx context.Context, req *ScanRequest) (*ScanReply, error)
	ConfirmDelivery(ctx context.Context, req *OrderRequest) (*OrderReply, error)
}

func unary[Req, Reply any](name string, call func(CourierServer, context.Context, *Req) (*Reply, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CourierServer), ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CourierServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CourierServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListClaimable", CourierServer.ListClaimable),
		unary("ResolveByCode", CourierServer.ResolveByCode),
		unary("TryClaim", CourierServer.TryClaim),
		unary("StartDelivery", CourierServer.StartDelivery),
		unary("Scan", CourierServer.Scan),
		unary("ConfirmDelivery", CourierServer.ConfirmDelivery),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketplace/v1/courier",
}
