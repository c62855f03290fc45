// Package stock holds the inventory decision rules: low-stock alert
// derivation and stock-in/stock-out validation. Everything here is pure.
// Callers pass product snapshots in and persist results themselves.
package stock

import (
	"log"

	"go-stockdash/internal/model"

	"github.com/google/uuid"
)

const (
	// DefaultLowStockThreshold applies when a product has no threshold configured.
	DefaultLowStockThreshold = 10
	// DefaultHighBandRatio is the fraction of the threshold at or below which a
	// low-stock alert escalates from medium to high.
	DefaultHighBandRatio = 0.5
)

// Severity classifies how urgent a stock alert is.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Alert is a projection of a product's stock state at evaluation time. It is
// recomputed on demand and never persisted.
type Alert struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	Threshold    int       `json:"threshold"`
	Category     string    `json:"category"`
	Severity     Severity  `json:"severity"`
}

// Evaluator derives alert severities from product stock levels. The cut
// points are policy, not law, so they are injected rather than hard-coded.
type Evaluator struct {
	defaultThreshold int
	highBandRatio    float64
}

// NewEvaluator builds an Evaluator. Out-of-range arguments fall back to the
// package defaults.
func NewEvaluator(defaultThreshold int, highBandRatio float64) *Evaluator {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultLowStockThreshold
	}
	if highBandRatio <= 0 || highBandRatio >= 1 {
		highBandRatio = DefaultHighBandRatio
	}
	return &Evaluator{
		defaultThreshold: defaultThreshold,
		highBandRatio:    highBandRatio,
	}
}

// Evaluate classifies one product:
//
//	stock == 0                  -> critical
//	stock <= threshold/2 (band) -> high
//	stock <= threshold          -> medium
//	otherwise                   -> none
//
// A zero threshold means "unconfigured" and uses the policy default.
// Negative inputs are a caller bug; they are clamped to zero and logged so a
// bad row can never take down a request.
func (e *Evaluator) Evaluate(p *model.Product) Severity {
	qty, threshold := e.effectiveState(p)

	switch {
	case qty == 0:
		return SeverityCritical
	case qty > threshold:
		return SeverityNone
	case float64(qty) <= e.highBandRatio*float64(threshold):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// EvaluateAll projects alerts for every product that is at or below its
// threshold, preserving input order. Products at severity none are excluded.
func (e *Evaluator) EvaluateAll(products []model.Product) []Alert {
	alerts := make([]Alert, 0, len(products))
	for i := range products {
		p := &products[i]
		severity := e.Evaluate(p)
		if severity == SeverityNone {
			continue
		}

		currentStock, threshold := e.effectiveState(p)

		alerts = append(alerts, Alert{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: currentStock,
			Threshold:    threshold,
			Category:     p.CategoryName(),
			Severity:     severity,
		})
	}
	return alerts
}

// effectiveState clamps bad inputs and resolves the threshold default in one
// place, so the classification and the alert projection always agree on what
// quantity and threshold were judged.
func (e *Evaluator) effectiveState(p *model.Product) (qty, threshold int) {
	qty = p.Stock
	if qty < 0 {
		log.Printf("stock: product %s has negative stock %d, clamping to 0", p.ID, qty)
		qty = 0
	}

	threshold = p.LowStockThreshold
	if threshold < 0 {
		log.Printf("stock: product %s has negative threshold %d, clamping to 0", p.ID, threshold)
		threshold = 0
	}
	if threshold == 0 {
		threshold = e.defaultThreshold
	}
	return qty, threshold
}
