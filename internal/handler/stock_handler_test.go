package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go-stockdash/internal/model"
	"go-stockdash/internal/repository"
	"go-stockdash/internal/service"
	"go-stockdash/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupStockApp builds a fiber app with the stock routes wired to an
// in-memory database, bypassing the auth middleware.
func setupStockApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.Transaction{}, &model.User{},
	))

	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	evaluator := stock.NewEvaluator(stock.DefaultLowStockThreshold, stock.DefaultHighBandRatio)
	svc := service.NewInventoryService(productRepo, txRepo, db, nil, nil, evaluator)
	h := NewStockHandler(svc)

	app := fiber.New()
	app.Post("/stock/in", h.StockIn)
	app.Post("/stock/out", h.StockOut)
	app.Get("/transactions", h.GetTransactions)

	return app, db
}

func createProduct(t *testing.T, db *gorm.DB, sku string, stockQty int, price int64) *model.Product {
	t.Helper()

	product := &model.Product{SKU: sku, Name: "Product " + sku, Stock: stockQty, Price: price}
	require.NoError(t, db.Create(product).Error)
	return product
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestStockInEndpoint(t *testing.T) {
	app, db := setupStockApp(t)
	product := createProduct(t, db, "HND-IN-1", 5, 10000)

	resp, body := postJSON(t, app, "/stock/in", map[string]interface{}{
		"product_id":     product.ID.String(),
		"quantity":       10,
		"supplier":       "PT Maju Jaya",
		"purchase_price": 8000,
	})

	assert.Equal(t, 201, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(15), data["stock_after"])
}

func TestStockOutInsufficientReturns409WithAvailable(t *testing.T) {
	app, db := setupStockApp(t)
	product := createProduct(t, db, "HND-OUT-1", 15, 10000)

	resp, body := postJSON(t, app, "/stock/out", map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   20,
		"reason":     "SALE",
	})

	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(15), body["available"])

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 15, reloaded.Stock)
}

func TestStockOutMissingReasonReturns400(t *testing.T) {
	app, db := setupStockApp(t)
	product := createProduct(t, db, "HND-OUT-2", 15, 10000)

	resp, body := postJSON(t, app, "/stock/out", map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   5,
		"reason":     "",
	})

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "MISSING_REASON", body["code"])
}

func TestStockInInvalidPriceReturns400(t *testing.T) {
	app, db := setupStockApp(t)
	product := createProduct(t, db, "HND-IN-2", 5, 10000)

	resp, body := postJSON(t, app, "/stock/in", map[string]interface{}{
		"product_id":     product.ID.String(),
		"quantity":       5,
		"supplier":       "PT Maju Jaya",
		"purchase_price": 0,
	})

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_PRICE", body["code"])
}
