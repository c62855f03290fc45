package repository

import (
	"time"

	"go-stockdash/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByProductID(productID uuid.UUID) ([]model.Transaction, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetFinancialSummary(startDate, endDate time.Time) (int64, int64, error)
}

// StockMovementData is one day of aggregated in/out quantities for charts.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").Preload("CreatedByUser").
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Product").Preload("CreatedByUser").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindByProductID(productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("CreatedByUser").
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

// GetFinancialSummary returns total purchase spend (IN) and total outbound
// value (OUT) over the period, both from TotalAmount snapshots.
func (r *transactionRepo) GetFinancialSummary(startDate, endDate time.Time) (int64, int64, error) {
	var purchases int64
	var outbound int64

	err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND created_at BETWEEN ? AND ?", model.TxIn, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&purchases).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.Model(&model.Transaction{}).
		Where("type = ? AND created_at BETWEEN ? AND ?", model.TxOut, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&outbound).Error
	if err != nil {
		return 0, 0, err
	}

	return purchases, outbound, nil
}
