package usecase

import (
	"fmt"
	"testing"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// =====================
// テスト用DB（sqliteインメモリ）
// =====================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// テストごとに別のインメモリDB
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.SubCategory{},
		&model.Product{},
		&model.ProductImage{},
		&model.ProductPrice{},
		&model.CartItem{},
		&model.Favorite{},
		&model.Order{},
		&model.OrderItem{},
	))
	return db
}

func newOrderUsecaseForTest(t *testing.T, db *gorm.DB) *OrderUsecase {
	t.Helper()
	return NewOrderUsecase(infraRepo.NewTxManagerGorm(db), zap.NewNop())
}

func newCartUsecaseForTest(t *testing.T, db *gorm.DB) *CartUsecase {
	t.Helper()
	return NewCartUsecase(
		infraRepo.NewTxManagerGorm(db),
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, price string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		CategoryID:    1,
		SubCategoryID: 1,
		Name:          slug,
		Slug:          slug,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCartItem(t *testing.T, db *gorm.DB, userID int64, productID int64, qty int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

func stockOf(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.StockQuantity
}

func cartRowCount(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func orderByID(t *testing.T, db *gorm.DB, orderID int64) model.Order {
	t.Helper()
	var o model.Order
	require.NoError(t, db.First(&o, orderID).Error)
	return o
}
