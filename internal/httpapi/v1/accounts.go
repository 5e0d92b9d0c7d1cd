// Account handlers: create, get, delete, list, and per-account transaction
// history.
package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCreateAccount)
	req, ok := v.(createAccountRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	acc, err := s.accountSvc.Create(r.Context(), req.Balance, req.CurrencyCode)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.accountSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(acc))
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.accountSvc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if !deleted {
		writeErr(w, http.StatusNotFound, "not_found", "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accs, err := s.accountSvc.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]accountResponse, 0, len(accs))
	for _, a := range accs {
		out = append(out, toAccountResponse(a))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) listAccountTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transferSvc.ListForAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	toJSON(w, http.StatusOK, out)
}
