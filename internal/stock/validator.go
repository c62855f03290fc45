package stock

import (
	"errors"
	"fmt"
	"strings"

	"go-stockdash/internal/model"
)

// Validation failures are typed so handlers can map each kind to a specific
// response without string matching. None of them are retried; each rejects a
// single request for the user to correct.
var (
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("purchase price must be greater than zero")
	ErrMissingSupplier   = errors.New("supplier name is required")
	ErrMissingReason     = errors.New("a valid stock-out reason is required")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a stock-out that would drive stock negative.
// It carries the available quantity so the caller can show it to the user.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientStock) match without losing the
// quantity context.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OutReason enumerates why stock leaves inventory.
type OutReason string

const (
	ReasonSale             OutReason = "SALE"
	ReasonDamaged          OutReason = "DAMAGED"
	ReasonInternalUse      OutReason = "INTERNAL_USE"
	ReasonReturnToSupplier OutReason = "RETURN_TO_SUPPLIER"
	ReasonOther            OutReason = "OTHER"
)

// Valid reports whether r is one of the enumerated stock-out reasons.
func (r OutReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonDamaged, ReasonInternalUse, ReasonReturnToSupplier, ReasonOther:
		return true
	}
	return false
}

// ValidateStockIn checks a stock-in request against the product snapshot and
// returns the resulting quantity. Checks run in order and fail fast:
// quantity, purchase price, supplier. Stock-in has no upper bound.
//
// Nothing is persisted here; the caller must write the returned quantity and
// the audit record atomically, with at most one concurrent writer per product.
func ValidateStockIn(p *model.Product, quantity int, supplier string, purchasePrice int64) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if purchasePrice <= 0 {
		return 0, ErrInvalidPrice
	}
	if strings.TrimSpace(supplier) == "" {
		return 0, ErrMissingSupplier
	}
	return p.Stock + quantity, nil
}

// ValidateStockOut checks a stock-out request against the product snapshot
// and returns the resulting quantity. Checks run in order: quantity,
// available stock, reason. The result is never negative; an overdraw is
// rejected with the available quantity attached.
func ValidateStockOut(p *model.Product, quantity int, reason OutReason) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return 0, &InsufficientStockError{Requested: quantity, Available: p.Stock}
	}
	if !reason.Valid() {
		return 0, ErrMissingReason
	}
	return p.Stock - quantity, nil
}
