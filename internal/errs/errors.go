package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
    ErrNotFound = errors.New("not_found")
    ErrInvalid  = errors.New("invalid")
    // ErrInsufficientFunds indicates the sender balance cannot cover the transfer.
    ErrInsufficientFunds = errors.New("insufficient_funds")
    // ErrCurrencyMismatch indicates the accounts and the transfer do not share one currency.
    ErrCurrencyMismatch = errors.New("currency_mismatch")
    // ErrTransferConflict indicates an optimistic-lock rejection: a watched account
    // changed between validation and commit. Transient; callers may retry the whole transfer.
    ErrTransferConflict = errors.New("transfer_conflict")
    // ErrPoolExhausted indicates no store connection became available within the pool timeout.
    ErrPoolExhausted = errors.New("pool_exhausted")
    // ErrConnection indicates the store is unreachable. Transient.
    ErrConnection = errors.New("connection_error")
    // ErrStore is a generic backend I/O failure, fatal for the current call.
    ErrStore = errors.New("store_error")
)
