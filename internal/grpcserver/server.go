//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_grpcserver
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/opengestu/validele-sub000/internal/auth"
	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/proof"
)

// Courier is the part of the order lifecycle exposed to courier apps.
type Courier interface {
	ListClaimable(ctx context.Context, sess order.Session, limit int) ([]*order.Order, error)
	ResolveByCode(ctx context.Context, sess order.Session, code string) (*order.Order, error)
	TryClaim(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	StartDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	Scan(ctx context.Context, sess order.Session, orderID, scanned string) (proof.Result, error)
	ConfirmDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
}

type TokenParser interface {
	Parse(raw string) (order.Session, error)
}

var _ CourierServer = (*Server)(nil)

type Server struct {
	svc    Courier
	tokens TokenParser
	logger *zap.Logger
	grpc   *grpc.Server
	health *health.Server
}

func NewServer(svc Courier, tokens TokenParser, logger *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		tokens: tokens,
		logger: logger,
		health: health.NewServer(),
	}
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authInterceptor))
	s.grpc.RegisterService(&CourierServiceDesc, s)
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("gRPC server shutdown completed")
	case <-ctx.Done():
		s.logger.Warn("gRPC graceful stop timed out, forcing")
		s.grpc.Stop()
	}
}

type sessionKey struct{}

func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
		return handler(ctx, req)
	}
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}
	raw, ok := auth.BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "malformed authorization header")
	}
	sess, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return handler(context.WithValue(ctx, sessionKey{}, sess), req)
}

func (s *Server) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Debug("RPC failed", zap.String("rpc_method", info.FullMethod), zap.Error(err))
	}
	return resp, err
}

func sessionFrom(ctx context.Context) order.Session {
	sess, _ := ctx.Value(sessionKey{}).(order.Session)
	return sess
}

var errorCodes = []struct {
	kind error
	code codes.Code
}{
	{order.ErrClaimConflict, codes.Aborted},
	{order.ErrInvalidProof, codes.InvalidArgument},
	{order.ErrIllegalTransition, codes.FailedPrecondition},
	{order.ErrCollaboratorUnavailable, codes.Unavailable},
	{order.ErrDataInconsistency, codes.Internal},
	{order.ErrNotFound, codes.NotFound},
	{order.ErrForbidden, codes.PermissionDenied},
	{order.ErrTimeout, codes.DeadlineExceeded},
	{order.ErrInvalidArgument, codes.InvalidArgument},
}

// toStatus maps a lifecycle error to a status carrying only the user message.
func (s *Server) toStatus(method string, err error) error {
	metrics.OperationErrorsTotal.WithLabelValues("grpc_" + method).Inc()
	kind := order.KindOf(err)
	for _, k := range errorCodes {
		if k.kind == kind {
			return status.Error(k.code, order.UserMessage(kind))
		}
	}
	s.logger.Error("Unexpected error", zap.String("rpc_method", method), zap.Error(err))
	return status.Error(codes.Internal, order.UserMessage(nil))
}

func (s *Server) ListClaimable(ctx context.Context, req *ListClaimableRequest) (*OrdersReply, error) {
	orders, err := s.svc.ListClaimable(ctx, sessionFrom(ctx), req.Limit)
	if err != nil {
		return nil, s.toStatus("list_claimable", err)
	}
	return &OrdersReply{Orders: orders}, nil
}

func (s *Server) ResolveByCode(ctx context.Context, req *ResolveRequest) (*OrderReply, error) {
	o, err := s.svc.ResolveByCode(ctx, sessionFrom(ctx), req.Code)
	if err != nil {
		return nil, s.toStatus("resolve_by_code", err)
	}
	return &OrderReply{Order: o}, nil
}

func (s *Server) TryClaim(ctx context.Context, req *OrderRequest) (*OrderReply, error) {
	if req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.svc.TryClaim(ctx, sessionFrom(ctx), req.OrderID)
	if err != nil {
		return nil, s.toStatus("try_claim", err)
	}
	return &OrderReply{Order: o}, nil
}

func (s *Server) StartDelivery(ctx context.Context, req *OrderRequest) (*OrderReply, error) {
	if req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.svc.StartDelivery(ctx, sessionFrom(ctx), req.OrderID)
	if err != nil {
		return nil, s.toStatus("start_delivery", err)
	}
	return &OrderReply{Order: o}, nil
}

// Scan reports an invalid code as a reply, not an error, so the app can show the reason.
func (s *Server) Scan(ctx context.Context, req *ScanRequest) (*ScanReply, error) {
	if req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	res, err := s.svc.Scan(ctx, sessionFrom(ctx), req.OrderID, req.Code)
	if err != nil && !errors.Is(err, order.ErrInvalidProof) {
		return nil, s.toStatus("scan", err)
	}
	return &ScanReply{Result: res}, nil
}

func (s *Server) ConfirmDelivery(ctx context.Context, req *OrderRequest) (*OrderReply, error) {
	if req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.svc.ConfirmDelivery(ctx, sessionFrom(ctx), req.OrderID)
	if err != nil {
		return nil, s.toStatus("confirm_delivery", err)
	}
	return &OrderReply{Order: o}, nil
}
