package server

import (
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/auth"
	"github.com/opengestu/validele-sub000/internal/order"
)

const webhookSecretHeader = "X-Webhook-Secret"

type sessionKey struct{}

func withSession(ctx context.Context, sess order.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func sessionFrom(ctx context.Context) (order.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(order.Session)
	return sess, ok
}

// authMiddleware accepts a bearer token for buyers, vendors and couriers and
// basic auth for operator accounts.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, ok := auth.BearerToken(r.Header.Get("Authorization")); ok {
			sess, err := s.tokens.Parse(raw)
			if err != nil {
				s.logger.Debug("Rejected bearer token", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil || !valid {
			if err != nil {
				s.logger.Error("Failed to validate operator", zap.String("username", username), zap.Error(err))
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sess := order.Session{ActorID: username, Role: order.RoleOperator}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

func (s *Server) validWebhookSecret(r *http.Request) bool {
	got := r.Header.Get(webhookSecretHeader)
	if got == "" || s.opts.WebhookSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.WebhookSecret)) == 1
}
