package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Cafeteria-api/docs"
	appanalytics "github.com/jhoicas/Cafeteria-api/internal/application/analytics"
	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/usecase"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Cafeteria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cafeteria-api/internal/interfaces/http"
	"github.com/jhoicas/Cafeteria-api/pkg/config"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	loc := cfg.App.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}

	// Redis es opcional: sin REDIS_ADDR el stock se lee siempre del libro y el logout no revoca en servidor.
	var (
		stockCache inventory.StockCache
		denylist   auth.TokenDenylist
	)
	if cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		stockCache = cache.NewStockCache(client, cfg.Redis.StockTTL(), log)
		denylist = cache.NewTokenDenylist(client)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("stock_ttl", cfg.Redis.StockTTL()).Msg("caché Redis habilitada")
	}

	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	logRepo := postgres.NewInventoryLogRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	adjustmentRepo := postgres.NewStockAdjustmentRepository(pool)
	countRepo := postgres.NewInventoryCountRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool, loc)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedger(txRunner, logRepo, productRepo, branchRepo, supplierRepo, stockCache, log).
		WithClock(func() time.Time { return time.Now().In(loc) })
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(adminRepo, userRepo, denylist, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(docs.Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		BranchUC:        usecase.NewBranchUseCase(branchRepo),
		UserUC:          usecase.NewUserUseCase(userRepo, adminRepo, branchRepo),
		SupplierUC:      usecase.NewSupplierUseCase(supplierRepo),
		ProductUC:       usecase.NewProductUseCase(productRepo, branchRepo),
		AttendanceUC:    usecase.NewAttendanceUseCase(attendanceRepo, loc),
		Ledger:          ledger,
		PurchaseOrders:  inventory.NewPurchaseOrderUseCase(ledger, txRunner, orderRepo, branchRepo, supplierRepo, productRepo, pdfGenerator, log),
		StockTransfers:  inventory.NewStockTransferUseCase(ledger, txRunner, transferRepo, branchRepo, productRepo, log),
		StockAdjustment: inventory.NewStockAdjustmentUseCase(ledger, txRunner, adjustmentRepo, branchRepo, productRepo, log),
		InventoryCounts: inventory.NewInventoryCountUseCase(ledger, txRunner, countRepo, branchRepo, productRepo, log),
		DashboardUC:     appanalytics.NewDashboardUseCase(ledger, dashboardRepo, loc),
		JWTSecret:       cfg.JWT.Secret,
		Location:        loc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
