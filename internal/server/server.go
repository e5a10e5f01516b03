//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/opengestu/validele-sub000/internal/lifecycle"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
	"github.com/opengestu/validele-sub000/internal/proof"
)

type OrderService interface {
	CreateOrder(ctx context.Context, sess order.Session, in lifecycle.NewOrder) (*order.Order, error)
	GetOrder(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context, sess order.Session, limit int) ([]*order.Order, error)
	ProofCode(ctx context.Context, sess order.Session, orderID string) (string, error)
	InitiatePayment(ctx context.Context, sess order.Session, orderID string) (*payment.Link, error)
	AwaitPayment(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	ConfirmPayment(ctx context.Context, sess order.Session, cb *payment.Callback) (*order.Order, error)
	ApplySettlementCallback(ctx context.Context, sess order.Session, cb *payment.Callback) (*order.Transaction, error)
	TryClaim(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	ListClaimable(ctx context.Context, sess order.Session, limit int) ([]*order.Order, error)
	ResolveByCode(ctx context.Context, sess order.Session, code string) (*order.Order, error)
	StartDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	Scan(ctx context.Context, sess order.Session, orderID, scanned string) (proof.Result, error)
	ConfirmDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error)
	Cancel(ctx context.Context, sess order.Session, orderID string, req lifecycle.CancelRequest) (*lifecycle.CancelOutcome, error)
	ApprovePayout(ctx context.Context, sess order.Session, orderID string) (*order.Transaction, error)
	ListEligiblePayouts(ctx context.Context, sess order.Session, limit int) ([]*order.Transaction, error)
	RetryRefund(ctx context.Context, sess order.Session, orderID string) (*order.Transaction, error)
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type TokenParser interface {
	Parse(raw string) (order.Session, error)
}

type Options struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	WebhookSecret string
	RatePerSecond float64
	Burst         int
}

type Server struct {
	svc          OrderService
	userRepo     UserRepo
	tokens       TokenParser
	opts         Options
	limiter      *rate.Limiter
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(svc OrderService, userRepo UserRepo, tokens TokenParser, audit *AuditManager, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		svc:          svc,
		userRepo:     userRepo,
		tokens:       tokens,
		opts:         opts,
		logger:       logger,
		AuditManager: audit,
	}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Run serves until Shutdown is called. The audit manager runs for as long as ctx.
func (s *Server) Run(ctx context.Context) error {
	s.AuditManager.Start(ctx)

	s.logger.Info("HTTP server starting", zap.String("addr", s.opts.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.rateLimitMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.Handle("/webhooks/payments", s.auditLogMiddleware(http.HandlerFunc(s.handlePaymentWebhook))).
		Methods(http.MethodPost).Name("handlePaymentWebhook")

	api := r.NewRoute().Subrouter()
	api.Use(s.authMiddleware, s.auditLogMiddleware)

	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost).Name("handleCreateOrder")
	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet).Name("handleListOrders")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet).Name("handleGetOrder")
	api.HandleFunc("/orders/{id}/qr", s.handleOrderQR).Methods(http.MethodGet).Name("handleOrderQR")
	api.HandleFunc("/orders/{id}/payment", s.handleInitiatePayment).Methods(http.MethodPost).Name("handleInitiatePayment")
	api.HandleFunc("/orders/{id}/payment/status", s.handlePaymentStatus).Methods(http.MethodGet).Name("handlePaymentStatus")
	api.HandleFunc("/orders/{id}/claim", s.handleClaim).Methods(http.MethodPost).Name("handleClaim")
	api.HandleFunc("/orders/{id}/start", s.handleStartDelivery).Methods(http.MethodPost).Name("handleStartDelivery")
	api.HandleFunc("/orders/{id}/scan", s.handleScan).Methods(http.MethodPost).Name("handleScan")
	api.HandleFunc("/orders/{id}/confirm", s.handleConfirmDelivery).Methods(http.MethodPost).Name("handleConfirmDelivery")
	api.HandleFunc("/orders/{id}/cancel", s.handleCancel).Methods(http.MethodPost).Name("handleCancel")

	api.HandleFunc("/courier/orders/claimable", s.handleListClaimable).Methods(http.MethodGet).Name("handleListClaimable")
	api.HandleFunc("/courier/orders/resolve", s.handleResolveByCode).Methods(http.MethodGet).Name("handleResolveByCode")

	api.HandleFunc("/admin/payouts", s.handleListPayouts).Methods(http.MethodGet).Name("handleListPayouts")
	api.HandleFunc("/admin/payouts/{id}/approve", s.handleApprovePayout).Methods(http.MethodPost).Name("handleApprovePayout")
	api.HandleFunc("/admin/refunds/{id}/retry", s.handleRetryRefund).Methods(http.MethodPost).Name("handleRetryRefund")

	return r
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
