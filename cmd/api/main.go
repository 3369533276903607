package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/sweep"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
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
	); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo)
	cartUC := usecase.NewCartUsecase(txManager, cartItemRepo, productRepo)
	favoriteUC := usecase.NewFavoriteUsecase(txManager, favoriteRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, log)
	adminProductUC := usecase.NewAdminProductUsecase(productRepo, categoryRepo, inventoryRepo)
	adminCategoryUC := usecase.NewAdminCategoryUsecase(categoryRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderUC)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo)

	// Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC, cartUC, favoriteUC, log),
		Catalog:  handler.NewCatalogHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Favorite: handler.NewFavoriteHandler(favoriteUC),
		Order:    handler.NewOrderHandler(orderUC),
		Admin: handler.NewAdminHandler(
			adminProductUC,
			adminCategoryUC,
			adminOrderUC,
			adminUserUC,
		),
	}

	e := server.New(cfg, handlers)

	// 期限切れ予約の掃除
	sweeper := sweep.NewSweeper(orderRepo, orderUC, cfg.ReservationTTL, log)
	worker := sweep.NewWorker(sweeper, cfg.SweepInterval, log)
	worker.Start(context.Background())
	defer worker.Stop()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	// SIGINT/SIGTERMで静かに落とす
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
