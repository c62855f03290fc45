package service

import (
	"time"

	"go-stockdash/internal/repository"
	"go-stockdash/internal/stock"
)

// DashboardStats is the overview card data.
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int   `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

// FinancialSummary aggregates transaction value over a period.
type FinancialSummary struct {
	Purchases     int64 `json:"purchases"`      // total stock-in spend
	OutboundValue int64 `json:"outbound_value"` // total stock-out value at list price
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetFinancialSummary(startDate, endDate time.Time) (*FinancialSummary, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	evaluator   *stock.Evaluator
}

func NewDashboardService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository, evaluator *stock.Evaluator) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		txRepo:      txRepo,
		evaluator:   evaluator,
	}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	total, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}

	valuation, err := s.productRepo.TotalValuation()
	if err != nil {
		return nil, err
	}

	// Low-stock count goes through the evaluator so the dashboard and the
	// alert list can never disagree on what "low" means.
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	lowStock := len(s.evaluator.EvaluateAll(products))

	return &DashboardStats{
		TotalProducts:  total,
		LowStockCount:  lowStock,
		TotalValuation: valuation,
	}, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.txRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetFinancialSummary(startDate, endDate time.Time) (*FinancialSummary, error) {
	purchases, outbound, err := s.txRepo.GetFinancialSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &FinancialSummary{
		Purchases:     purchases,
		OutboundValue: outbound,
	}, nil
}
