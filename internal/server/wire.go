package server

import (
	"context"
	"fmt"

	"pos/internal/config"
	"pos/internal/handler"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/usecase"
	auth "pos/internal/usecase/auth_usecase"
	"pos/internal/validator"
	"pos/pkg/logger"

	"gorm.io/gorm"
)

// 組み立てに必要な外部部品
type Deps struct {
	DB     *gorm.DB
	Config config.Config
	Log    logger.Logger
	Clock  usecase.Clock
	IDGen  auth.IDGenerator
}

// Repository → Usecase → Handler の順に組み立て、初期管理者を用意してルートを登録する
func Build(ctx context.Context, d Deps) (*Server, error) {
	cfg := d.Config

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(d.DB)
	saleRepo := infraRepo.NewSaleGormRepository(d.DB)
	saleItemRepo := infraRepo.NewSaleItemGormRepository(d.DB)
	reportRepo := infraRepo.NewReportGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//bcrypt（初期管理者：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	credValidator := validator.NewAuthValidator()

	//JWT issuer
	issuer, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, d.IDGen)
	if err != nil {
		return nil, fmt.Errorf("jwt issuer: %w", err)
	}

	//Usecase生成
	loginUC := auth.NewLoginUsecase(userRepo, credValidator, verifier, issuer, d.Clock)
	seedUC := auth.NewSeedAdminUsecase(userRepo, credValidator, hasher, d.Clock)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, txm, d.Clock)
	saleUC := usecase.NewSaleUsecase(txm, saleRepo, saleItemRepo, productRepo, d.Clock, cfg.TaxRatePercent, d.Log)
	reportUC := usecase.NewReportUsecase(reportRepo, productRepo, saleRepo, d.Clock)

	created, err := seedUC.Execute(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		d.Log.Infof("default admin %q created", cfg.AdminUsername)
	}

	//Handler生成
	srv := New(d.Log)
	RegisterRoutes(srv.Echo(), Handlers{
		Auth:    handler.NewAuthHandler(loginUC),
		Product: handler.NewProductHandler(productUC),
		Sale:    handler.NewSaleHandler(saleUC),
		Report:  handler.NewReportHandler(reportUC),
	}, cfg.RequireAuth, cfg.JWTSecret, userRepo)

	return srv, nil
}
