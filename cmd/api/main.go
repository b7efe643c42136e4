package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/jhoicas/equipamentos-api/internal/application/analytics"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/cache"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/equipamentos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/equipamentos-api/internal/interfaces/http"
	"github.com/jhoicas/equipamentos-api/pkg/config"
	"github.com/jhoicas/equipamentos-api/pkg/jwt"
	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

// devAdminID identidad sembrada en STORAGE_DRIVER=memory.
const devAdminID = "00000000-0000-0000-0000-000000000001"

// repositories puertos de persistencia según el driver configurado.
type repositories struct {
	tx         inventory.TxRunner
	categories repository.CategoryRepository
	equipment  repository.EquipmentRepository
	movements  repository.MovementRepository
	orders     repository.OrderRepository
	profiles   repository.ProfileRepository
	directory  repository.IdentityDirectory
	analytics  repository.AnalyticsRepository
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		tx:         postgres.NewTxRunner(pool),
		categories: postgres.NewCategoryRepository(pool),
		equipment:  postgres.NewEquipmentRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		orders:     postgres.NewOrderRepository(pool),
		profiles:   postgres.NewProfileRepository(pool),
		directory:  postgres.NewIdentityDirectory(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		tx:         memory.NewTxRunner(store),
		categories: store.Categories(),
		equipment:  store.Equipment(),
		movements:  store.Movements(),
		orders:     store.Orders(),
		profiles:   store.Profiles(),
		directory:  store.Identities(),
		analytics:  store.Analytics(),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	jwtOpts := jwt.Options{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		Expiration: time.Duration(cfg.JWT.Expiration) * time.Minute,
	}

	ctx := context.Background()
	var (
		repos repositories
		ping  func(context.Context) error
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		store.AddIdentity(entity.UserProfile{ID: devAdminID, Name: "Administrador", Role: entity.RoleAdmin}, "admin@localhost")
		repos = memoryRepositories(store)
		if token, err := jwt.Generate(jwtOpts, devAdminID, "admin@localhost"); err == nil {
			log.Warn().Str("token", token).Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos = postgresRepositories(pool)
		ping = pool.Ping
	}

	// Caché de perfiles: se consulta en cada petición autenticada
	if cfg.Redis.Enabled() {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		repos.profiles = cache.NewCachedProfileRepository(repos.profiles, rdb, cfg.Redis.ProfileCacheTTL, log)
	}

	loc := cfg.App.Location()
	codec := spreadsheet.NewCodec()
	categoryUC := inventory.NewCategoryUseCase(repos.categories, repos.equipment)
	equipmentUC := inventory.NewEquipmentUseCase(repos.tx, repos.equipment, repos.categories)
	movementUC := inventory.NewMovementUseCase(repos.tx, repos.movements, repos.equipment)
	importUC := transfer.NewImportUseCase(codec, equipmentUC, categoryUC, log)
	exportUC := transfer.NewExportUseCase(repos.movements, codec, infrapdf.NewMarotoReportRenderer(cfg.App.Name), loc)
	orderUC := usecase.NewOrderUseCase(repos.orders)
	userUC := usecase.NewUserUseCase(repos.profiles, repos.directory)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.analytics, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		BodyLimit:    cfg.Import.MaxBytes + 1<<20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Equipamentos API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:     categoryUC,
		EquipmentUC:    equipmentUC,
		MovementUC:     movementUC,
		ImportUC:       importUC,
		ExportUC:       exportUC,
		OrderUC:        orderUC,
		UserUC:         userUC,
		DashboardUC:    dashboardUC,
		JWT:            jwtOpts,
		Location:       loc,
		ImportMaxBytes: cfg.Import.MaxBytes,
		Ping:           ping,
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
