package v1

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const ctxKeyCreateAccount ctxKey = "validatedCreateAccount"
const ctxKeyCreateTransaction ctxKey = "validatedCreateTransaction"

// validateCreateAccount decodes and validates the POST /v1/accounts body and
// stores the validated request in the context for the handler.
func (s *Server) validateCreateAccount() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req createAccountRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if err := s.accountSvc.ValidateCreate(req.Balance, req.CurrencyCode); err != nil {
				writeDomainErr(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyCreateAccount, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateCreateTransaction decodes and validates the POST /v1/transactions
// body. Existence, currency agreement, and funds are checked inside the engine
// against a watched snapshot; only request shape is rejected here.
func (s *Server) validateCreateTransaction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req createTransactionRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if err := s.transferSvc.ValidateRequest(req.SenderAccountID, req.RecipientAccountID, req.Amount, req.CurrencyCode); err != nil {
				writeDomainErr(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyCreateTransaction, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
