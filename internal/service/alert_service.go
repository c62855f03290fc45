package service

import (
	"strings"

	"go-stockdash/internal/repository"
	"go-stockdash/internal/stock"
)

// AlertSummary feeds the dashboard badge counts.
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
}

type AlertService interface {
	GetStockAlerts(severity, search string) ([]stock.Alert, error)
	GetAlertSummary() (*AlertSummary, error)
}

type alertService struct {
	productRepo repository.ProductRepository
	evaluator   *stock.Evaluator
}

func NewAlertService(productRepo repository.ProductRepository, evaluator *stock.Evaluator) AlertService {
	return &alertService{
		productRepo: productRepo,
		evaluator:   evaluator,
	}
}

// GetStockAlerts projects alerts for the current product list, optionally
// filtered by severity and by a case-insensitive name/category search.
// Alerts keep product-list order; the UI decides any grouping.
func (s *alertService) GetStockAlerts(severity, search string) ([]stock.Alert, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	alerts := s.evaluator.EvaluateAll(products)

	if severity == "" && search == "" {
		return alerts, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]stock.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if severity != "" && string(alert.Severity) != severity {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(alert.ProductName), needle) &&
			!strings.Contains(strings.ToLower(alert.Category), needle) {
			continue
		}
		filtered = append(filtered, alert)
	}
	return filtered, nil
}

func (s *alertService) GetAlertSummary() (*AlertSummary, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	summary := &AlertSummary{}
	for _, alert := range s.evaluator.EvaluateAll(products) {
		summary.Total++
		switch alert.Severity {
		case stock.SeverityCritical:
			summary.Critical++
		case stock.SeverityHigh:
			summary.High++
		case stock.SeverityMedium:
			summary.Medium++
		}
	}
	return summary, nil
}
