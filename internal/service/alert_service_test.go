package service

import (
	"errors"
	"testing"

	"go-stockdash/internal/model"
	"go-stockdash/internal/stock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductRepo) FindAll() ([]model.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) FindBySKU(sku string) (*model.Product, error) {
	args := m.Called(sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) Update(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockProductRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	args := m.Called(tx, id, newStock, updatedBy)
	return args.Error(0)
}

func (m *mockProductRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) TotalValuation() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func alertFixtures() []model.Product {
	electronics := &model.Category{Name: "Electronics"}
	beverages := &model.Category{Name: "Beverages"}

	return []model.Product{
		{Name: "USB Cable", Stock: 0, LowStockThreshold: 10, Category: electronics},
		{Name: "Power Bank", Stock: 4, LowStockThreshold: 10, Category: electronics},
		{Name: "Green Tea", Stock: 8, LowStockThreshold: 10, Category: beverages},
		{Name: "Coffee Beans", Stock: 50, LowStockThreshold: 10, Category: beverages},
	}
}

func newAlertService(products []model.Product) (AlertService, *mockProductRepo) {
	repo := new(mockProductRepo)
	repo.On("FindAll").Return(products, nil)
	evaluator := stock.NewEvaluator(stock.DefaultLowStockThreshold, stock.DefaultHighBandRatio)
	return NewAlertService(repo, evaluator), repo
}

func TestGetStockAlertsReturnsOnlyLowStock(t *testing.T) {
	svc, repo := newAlertService(alertFixtures())

	alerts, err := svc.GetStockAlerts("", "")
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, "USB Cable", alerts[0].ProductName)
	assert.Equal(t, stock.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, stock.SeverityHigh, alerts[1].Severity)
	assert.Equal(t, stock.SeverityMedium, alerts[2].Severity)

	repo.AssertExpectations(t)
}

func TestGetStockAlertsFiltersBySeverity(t *testing.T) {
	svc, _ := newAlertService(alertFixtures())

	alerts, err := svc.GetStockAlerts("critical", "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "USB Cable", alerts[0].ProductName)
}

func TestGetStockAlertsSearchMatchesNameAndCategory(t *testing.T) {
	svc, _ := newAlertService(alertFixtures())

	byName, err := svc.GetStockAlerts("", "power")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Power Bank", byName[0].ProductName)

	byCategory, err := svc.GetStockAlerts("", "beverages")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Green Tea", byCategory[0].ProductName)
}

func TestGetStockAlertsCombinedFilters(t *testing.T) {
	svc, _ := newAlertService(alertFixtures())

	alerts, err := svc.GetStockAlerts("high", "electronics")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Power Bank", alerts[0].ProductName)
}

func TestGetAlertSummaryCounts(t *testing.T) {
	svc, _ := newAlertService(alertFixtures())

	summary, err := svc.GetAlertSummary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 1, summary.High)
	assert.Equal(t, 1, summary.Medium)
}

func TestGetStockAlertsRepoError(t *testing.T) {
	repo := new(mockProductRepo)
	repo.On("FindAll").Return(nil, errors.New("db down"))
	evaluator := stock.NewEvaluator(stock.DefaultLowStockThreshold, stock.DefaultHighBandRatio)
	svc := NewAlertService(repo, evaluator)

	_, err := svc.GetStockAlerts("", "")
	assert.Error(t, err)
}
