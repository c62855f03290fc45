package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"go-stockdash/internal/model"
	"go-stockdash/internal/repository"
	"go-stockdash/internal/stock"
	"go-stockdash/internal/ws"
	"go-stockdash/pkg/events"
	"go-stockdash/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUExists       = errors.New("SKU already exists")
)

// Actor identifies the authenticated user performing an operation, for audit
// columns and broadcast payloads.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// StockInRequest receives inventory from a supplier.
type StockInRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity      int       `json:"quantity"`
	Supplier      string    `json:"supplier"`
	PurchasePrice int64     `json:"purchase_price"`
	Note          string    `json:"note"`
}

// StockOutRequest removes inventory (sale, damage, internal use, return).
type StockOutRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Note      string    `json:"note"`
}

type InventoryService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	StockIn(req *StockInRequest, actor Actor) (*model.Transaction, error)
	StockOut(req *StockOutRequest, actor Actor) (*model.Transaction, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
	GetProductTransactions(productID uuid.UUID) ([]model.Transaction, error)
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
	publisher       *events.Publisher
	evaluator       *stock.Evaluator
}

// lockProductRow reads under SELECT ... FOR UPDATE so concurrent mutations of
// the same product serialize on its row. sqlite has no row locks and a single
// writer, so the clause is skipped there.
func lockProductRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
	publisher *events.Publisher,
	evaluator *stock.Evaluator,
) InventoryService {
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
		publisher:       publisher,
		evaluator:       evaluator,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, actor Actor) error {
	if msg := validator.FirstError(req); msg != "" {
		return errors.New(msg)
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	req.CreatedByUserID = &actor.ID
	req.UpdatedByUserID = &actor.ID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcast(map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_created",
		"product": productPayload(req),
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%s created product '%s'", actor.Name, req.Name),
	})

	return nil
}

// UpdateProduct changes product master data. Stock is deliberately not
// written here: quantity moves only through validated stock transactions.
func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := lockProductRow(tx).First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		if req.SKU != existing.SKU {
			other, _ := s.productRepo.FindBySKU(req.SKU)
			if other != nil && other.ID != existing.ID {
				return ErrSKUExists
			}
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Unit = req.Unit
		existing.Price = req.Price
		existing.LowStockThreshold = req.LowStockThreshold
		existing.CategoryID = req.CategoryID
		existing.UpdatedBy = actor.ID
		existing.UpdatedByUserID = &actor.ID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_updated",
		"product": productPayload(updated),
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})

	// A lowered threshold can put the product into alert state immediately.
	s.raiseAlertIfLow(updated.ID)

	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.broadcast(map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_deleted",
		"product": productPayload(product),
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%s deleted product '%s'", actor.Name, product.Name),
	})

	return nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// StockIn validates and applies a receipt of inventory. The read, the
// validation, and both writes (stock column + audit record) happen under one
// DB transaction with a row lock, so two concurrent mutations of the same
// product cannot both apply against a stale quantity.
func (s *inventoryService) StockIn(req *StockInRequest, actor Actor) (*model.Transaction, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, errors.New(msg)
	}

	var record *model.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := lockProductRow(tx).First(&product, "id = ?", req.ProductID).Error; err != nil {
			return ErrProductNotFound
		}

		newStock, err := stock.ValidateStockIn(&product, req.Quantity, req.Supplier, req.PurchasePrice)
		if err != nil {
			return err
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actor.ID); err != nil {
			return err
		}

		record = &model.Transaction{
			ProductID:     product.ID,
			Type:          model.TxIn,
			Quantity:      req.Quantity,
			Supplier:      req.Supplier,
			PurchasePrice: req.PurchasePrice,
			TotalAmount:   req.PurchasePrice * int64(req.Quantity),
			StockAfter:    newStock,
			Note:          req.Note,
		}
		record.CreatedBy = actor.ID
		record.UpdatedBy = actor.ID
		record.CreatedByUserID = &actor.ID

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.broadcastTransaction("added", record, actor)
	s.raiseAlertIfLow(req.ProductID)

	return record, nil
}

// StockOut validates and applies a removal of inventory under the same
// locking discipline as StockIn. An overdraw is rejected before any write.
func (s *inventoryService) StockOut(req *StockOutRequest, actor Actor) (*model.Transaction, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, errors.New(msg)
	}

	var record *model.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := lockProductRow(tx).First(&product, "id = ?", req.ProductID).Error; err != nil {
			return ErrProductNotFound
		}

		newStock, err := stock.ValidateStockOut(&product, req.Quantity, stock.OutReason(req.Reason))
		if err != nil {
			return err
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actor.ID); err != nil {
			return err
		}

		record = &model.Transaction{
			ProductID:   product.ID,
			Type:        model.TxOut,
			Quantity:    req.Quantity,
			Reason:      req.Reason,
			TotalAmount: product.Price * int64(req.Quantity),
			StockAfter:  newStock,
			Note:        req.Note,
		}
		record.CreatedBy = actor.ID
		record.UpdatedBy = actor.ID
		record.CreatedByUserID = &actor.ID

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.broadcastTransaction("removed", record, actor)
	s.raiseAlertIfLow(req.ProductID)

	return record, nil
}

func (s *inventoryService) GetAllTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *inventoryService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.transactionRepo.FindByID(id)
}

func (s *inventoryService) GetProductTransactions(productID uuid.UUID) ([]model.Transaction, error) {
	return s.transactionRepo.FindByProductID(productID)
}

// raiseAlertIfLow re-evaluates the product after a mutation and fans out the
// alert to websocket clients and the AMQP queue when severity is above none.
// Runs after commit; notification failures are logged, never returned.
func (s *inventoryService) raiseAlertIfLow(productID uuid.UUID) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return
	}

	severity := s.evaluator.Evaluate(product)
	if severity == stock.SeverityNone {
		return
	}

	alerts := s.evaluator.EvaluateAll([]model.Product{*product})
	if len(alerts) == 0 {
		return
	}
	alert := alerts[0]

	s.broadcast(map[string]interface{}{
		"type":    "stock_alert",
		"alert":   alert,
		"message": fmt.Sprintf("'%s' stock is %s: %d left (threshold %d)", alert.ProductName, alert.Severity, alert.CurrentStock, alert.Threshold),
	})

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(alert); err != nil {
			log.Printf("inventory: failed to publish alert for product %s: %v", productID, err)
		}
	}
}

func (s *inventoryService) broadcastTransaction(verb string, record *model.Transaction, actor Actor) {
	s.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"transaction": map[string]interface{}{
			"id":          record.ID,
			"type":        record.Type,
			"quantity":    record.Quantity,
			"product_id":  record.ProductID,
			"stock_after": record.StockAfter,
		},
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%s %s %d units (%s)", actor.Name, verb, record.Quantity, record.Type),
	})
}

// broadcast marshals and sends a payload to the websocket hub without
// blocking the request path. Nil hub (tests, workers) is a no-op.
func (s *inventoryService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, err := json.Marshal(payload)
		if err != nil {
			log.Printf("inventory: failed to marshal broadcast: %v", err)
			return
		}
		s.wsHub.Broadcast <- msg
	}()
}

func productPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":                  p.ID,
		"sku":                 p.SKU,
		"name":                p.Name,
		"stock":               p.Stock,
		"price":               p.Price,
		"low_stock_threshold": p.LowStockThreshold,
	}
}

func actorPayload(a Actor) map[string]interface{} {
	return map[string]interface{}{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
	}
}
