// Transaction handlers: transfer execution with bounded conflict retry, plus
// the read-only queries.
package v1

import (
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/cashwire/transferd/internal/bank"
	"github.com/cashwire/transferd/internal/errs"
)

// transferAttempts bounds caller-side retries on optimistic-lock conflicts.
// The engine itself never retries; unbounded retry under sustained contention
// would starve callers.
const transferAttempts = 3

const transferRetryDelay = 10 * time.Millisecond

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCreateTransaction)
	req, ok := v.(createTransactionRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}

	var tx bank.Transaction
	var err error
	for attempt := 1; attempt <= transferAttempts; attempt++ {
		tx, err = s.transferSvc.Create(r.Context(), req.SenderAccountID, req.RecipientAccountID, req.Amount, req.CurrencyCode)
		if !errors.Is(err, errs.ErrTransferConflict) {
			break
		}
		transfersTotal.WithLabelValues(outcomeConflict).Inc()
		s.log.Info("transfer conflict, retrying",
			"sender", req.SenderAccountID,
			"recipient", req.RecipientAccountID,
			"attempt", attempt,
		)
		if attempt < transferAttempts {
			// Back off before the next attempt, but give up as soon as the
			// caller goes away: a canceled request gets the conflict reported
			// instead of further engine rounds it will never read.
			delay := time.NewTimer(transferRetryDelay)
			select {
			case <-r.Context().Done():
				delay.Stop()
			case <-delay.C:
				continue
			}
			break
		}
	}
	if err != nil {
		if errors.Is(err, errs.ErrTransferConflict) || errors.Is(err, errs.ErrInsufficientFunds) || errors.Is(err, errs.ErrCurrencyMismatch) || errors.Is(err, errs.ErrNotFound) {
			transfersTotal.WithLabelValues(outcomeRejected).Inc()
		}
		writeDomainErr(w, err)
		return
	}
	transfersTotal.WithLabelValues(outcomeCommitted).Inc()
	toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transferSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transferSvc.List(r.Context())
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
