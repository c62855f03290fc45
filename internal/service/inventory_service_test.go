package service

import (
	"errors"
	"fmt"
	"testing"

	"go-stockdash/internal/model"
	"go-stockdash/internal/repository"
	"go-stockdash/internal/stock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.Transaction{}, &model.User{},
	))
	return db
}

func newTestService(t *testing.T) (InventoryService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	evaluator := stock.NewEvaluator(stock.DefaultLowStockThreshold, stock.DefaultHighBandRatio)

	// No hub and no publisher: notification fan-out is a no-op in tests.
	return NewInventoryService(productRepo, txRepo, db, nil, nil, evaluator), db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, stockQty int, price int64) *model.Product {
	t.Helper()

	product := &model.Product{
		SKU:   sku,
		Name:  "Test Product " + sku,
		Stock: stockQty,
		Unit:  "pcs",
		Price: price,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func testActor() Actor {
	return Actor{ID: "tester", Name: "Tester", Email: "tester@example.com"}
}

func TestStockInIncrementsStockAndRecordsTransaction(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-IN-1", 5, 12000)

	record, err := svc.StockIn(&StockInRequest{
		ProductID:     product.ID,
		Quantity:      10,
		Supplier:      "PT Maju Jaya",
		PurchasePrice: 9000,
	}, testActor())
	require.NoError(t, err)

	assert.Equal(t, model.TxIn, record.Type)
	assert.Equal(t, 15, record.StockAfter)
	assert.Equal(t, int64(90000), record.TotalAmount)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 15, reloaded.Stock)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStockInRejectsZeroQuantity(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-IN-2", 5, 12000)

	_, err := svc.StockIn(&StockInRequest{
		ProductID:     product.ID,
		Quantity:      0,
		Supplier:      "PT Maju Jaya",
		PurchasePrice: 9000,
	}, testActor())
	assert.ErrorIs(t, err, stock.ErrInvalidQuantity)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestStockOutDecrementsStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-OUT-1", 15, 20000)

	record, err := svc.StockOut(&StockOutRequest{
		ProductID: product.ID,
		Quantity:  10,
		Reason:    string(stock.ReasonSale),
	}, testActor())
	require.NoError(t, err)

	assert.Equal(t, model.TxOut, record.Type)
	assert.Equal(t, 5, record.StockAfter)
	assert.Equal(t, int64(200000), record.TotalAmount)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestStockOutOverdrawLeavesStockUntouched(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-OUT-2", 15, 20000)

	_, err := svc.StockOut(&StockOutRequest{
		ProductID: product.ID,
		Quantity:  20,
		Reason:    string(stock.ReasonSale),
	}, testActor())

	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 20, insufficient.Requested)
	assert.Equal(t, 15, insufficient.Available)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 15, reloaded.Stock)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestStockOutRejectsUnknownReason(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-OUT-3", 15, 20000)

	_, err := svc.StockOut(&StockOutRequest{
		ProductID: product.ID,
		Quantity:  5,
		Reason:    "SHRINKAGE",
	}, testActor())
	assert.ErrorIs(t, err, stock.ErrMissingReason)
}

func TestStockInUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StockIn(&StockInRequest{
		ProductID:     uuid.New(),
		Quantity:      5,
		Supplier:      "PT Maju Jaya",
		PurchasePrice: 1000,
	}, testActor())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRoundTripRestoresOriginalStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-RT-1", 50, 20000)

	_, err := svc.StockIn(&StockInRequest{
		ProductID:     product.ID,
		Quantity:      7,
		Supplier:      "PT Maju Jaya",
		PurchasePrice: 15000,
	}, testActor())
	require.NoError(t, err)

	_, err = svc.StockOut(&StockOutRequest{
		ProductID: product.ID,
		Quantity:  7,
		Reason:    string(stock.ReasonDamaged),
	}, testActor())
	require.NoError(t, err)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 50, reloaded.Stock)
}

func TestUpdateProductNeverWritesStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, "SKU-UPD-1", 25, 20000)

	update := &model.Product{
		SKU:   "SKU-UPD-1",
		Name:  "Renamed Product",
		Stock: 999, // must be ignored
		Price: 25000,
	}
	updated, err := svc.UpdateProduct(product.ID, update, testActor())
	require.NoError(t, err)

	assert.Equal(t, "Renamed Product", updated.Name)
	assert.Equal(t, int64(25000), updated.Price)
	assert.Equal(t, 25, updated.Stock)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 25, reloaded.Stock)
}

func TestLockProductRowEmitsForUpdate(t *testing.T) {
	// A dialect with row locks must see FOR UPDATE on the product read, or two
	// concurrent stock-outs could both validate against the same stale quantity.
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var product model.Product
	stmt := lockProductRow(db).First(&product, "id = ?", uuid.New()).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestLockProductRowSkipsSQLite(t *testing.T) {
	db := setupTestDB(t).Session(&gorm.Session{DryRun: true})

	var product model.Product
	stmt := lockProductRow(db).First(&product, "id = ?", uuid.New()).Statement
	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, "SKU-DUP-1", 10, 5000)

	err := svc.CreateProduct(&model.Product{
		SKU:  "SKU-DUP-1",
		Name: "Another Product",
	}, testActor())
	assert.True(t, errors.Is(err, ErrSKUExists))
}
