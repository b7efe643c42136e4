package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/equipamentos-api/internal/application/analytics"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC     *inventory.CategoryUseCase
	EquipmentUC    *inventory.EquipmentUseCase
	MovementUC     *inventory.MovementUseCase
	ImportUC       *transfer.ImportUseCase
	ExportUC       *transfer.ExportUseCase
	OrderUC        *usecase.OrderUseCase
	UserUC         *usecase.UserUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	JWT            jwt.Options
	Location       *time.Location
	ImportMaxBytes int
	// Ping verifica la base en /health; nil = sin dependencia externa.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo /api requiere Bearer Token y perfil
	api := app.Group("/api", AuthMiddleware(deps.JWT, deps.UserUC))
	api.Get("/me", Me)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	manageCategories := RequireCapability(policy.CapManageCategories)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", manageCategories, categoryHandler.Create)
	categories.Put("/:id", manageCategories, categoryHandler.Update)
	categories.Delete("/:id", manageCategories, categoryHandler.Delete)

	equipment := api.Group("/equipment")
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC)
	mutateEquipment := RequireCapability(policy.CapMutateEquipment)
	equipment.Get("/", equipmentHandler.List)
	equipment.Get("/:id", equipmentHandler.GetByID)
	equipment.Post("/", mutateEquipment, equipmentHandler.Create)
	equipment.Post("/batch", mutateEquipment, equipmentHandler.BulkCreate)
	equipment.Put("/:id", mutateEquipment, equipmentHandler.Update)
	equipment.Delete("/:id", RequireCapability(policy.CapDeleteEquipment), equipmentHandler.Delete)

	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.Location)
	movements.Get("/", movementHandler.List)
	movements.Post("/", RequireCapability(policy.CapRecordMovement), movementHandler.Record)
	movements.Post("/:id/apply", mutateEquipment, movementHandler.Apply)

	transferGroup := api.Group("/transfer")
	transferHandler := NewTransferHandler(deps.ImportUC, deps.ExportUC, deps.Location, deps.ImportMaxBytes)
	importEquipment := RequireCapability(policy.CapImportEquipment)
	transferGroup.Post("/import/preview", importEquipment, transferHandler.Preview)
	transferGroup.Post("/import", importEquipment, transferHandler.Import)
	transferGroup.Get("/export/movements", RequireCapability(policy.CapExportMovements), transferHandler.ExportMovements)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", RequireCapability(policy.CapCreateOrder), orderHandler.Create)

	users := api.Group("/users", RequireCapability(policy.CapManageUsers))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.ChangeRole)
	users.Post("/:id/promote", userHandler.Promote)
	users.Post("/:id/demote", userHandler.Demote)

	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
