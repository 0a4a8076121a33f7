package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"messapp/internal/config"
	"messapp/internal/handler"
	"messapp/internal/infra/cache"
	"messapp/internal/infra/db"
	infraRepo "messapp/internal/infra/repository"
	"messapp/internal/logger"
	"messapp/internal/repository"
	"messapp/internal/server"
	"messapp/internal/usecase"
	auth "messapp/internal/usecase/auth_usecase"
	"messapp/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewLogger("mess-api")

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup", "", "invalid config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("startup", "", "server exited", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	// DB
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// catalog cache
	var catalogCache repository.CatalogCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cfg.RedisAddr)
		defer rdb.Close()
		catalogCache = cache.NewCatalogRedisCache(rdb, cfg.CatalogCacheTTL)
	}

	// repositories
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	subRepo := infraRepo.NewSubscriptionGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	clock := usecase.SystemClock{}

	// auth
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	v := validator.NewAuthValidator()

	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, v, auth.SystemClock{})
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, v, auth.SystemClock{})
	logoutUC := auth.NewLogoutUsecase(userRepo)

	// mess
	menuUC := usecase.NewMenuUsecase(menuRepo, txm, catalogCache, cfg.MessLocation, cfg.MenuVegOnly, log)
	subUC := usecase.NewSubscriptionUsecase(txm, subRepo, clock)
	orderUC := usecase.NewOrderUsecase(txm, subRepo, menuUC, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, auditRepo, clock)
	adminStudentUC := usecase.NewAdminStudentUsecase(userRepo, subRepo)

	if err := bootstrap(ctx, cfg, log, menuUC, userRepo, hasher); err != nil {
		return err
	}

	e := server.New(cfg, log, userRepo,
		handler.NewHealthHandler(sqlDB),
		handler.NewAuthHandler(registerUC, loginUC, logoutUC),
		handler.NewMenuHandler(menuUC),
		handler.NewSubscriptionHandler(subUC),
		handler.NewOrderHandler(orderUC),
		handler.NewAdminOrderHandler(adminOrderUC),
		handler.NewAdminMenuHandler(menuUC),
		handler.NewAdminStudentHandler(adminStudentUC, logoutUC),
	)
	return server.Start(ctx, e, cfg.Port, log)
}

// bootstrap seeds the menu on an empty database and makes sure the admin account exists.
func bootstrap(
	ctx context.Context,
	cfg config.Config,
	log *logger.Logger,
	menuUC *usecase.MenuUsecase,
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
) error {
	if cfg.MenuSeedPath != "" {
		f, err := os.Open(cfg.MenuSeedPath)
		if err != nil {
			return err
		}
		n, err := menuUC.SeedIfEmpty(ctx, f)
		_ = f.Close()
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("menu_seed", "", "seeded menu", slog.Int("items", n), slog.String("path", cfg.MenuSeedPath))
		}
	}

	if cfg.AdminEnrollment != "" {
		created, err := auth.NewEnsureAdminUsecase(userRepo, hasher, auth.SystemClock{}).
			Execute(ctx, cfg.AdminEnrollment, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info("admin_bootstrap", "", "admin account created", slog.String("enrollment", cfg.AdminEnrollment))
		}
	}
	return nil
}
