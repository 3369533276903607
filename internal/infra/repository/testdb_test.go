package repository

import (
	"fmt"
	"testing"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

func seedProduct(t *testing.T, db *gorm.DB, slug string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		CategoryID:    1,
		SubCategoryID: 1,
		Name:          slug,
		Slug:          slug,
		Price:         decimal.RequireFromString("1000.00"),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func currentStock(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.StockQuantity
}
