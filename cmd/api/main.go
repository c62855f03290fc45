package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stockdash/internal/handler"
	"go-stockdash/internal/middleware"
	"go-stockdash/internal/model"
	"go-stockdash/internal/repository"
	"go-stockdash/internal/service"
	"go-stockdash/internal/stock"
	"go-stockdash/internal/ws"
	"go-stockdash/pkg/config"
	"go-stockdash/pkg/database"
	"go-stockdash/pkg/events"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)
	// Schema migration at boot; a dedicated migration tool would replace this
	// once the schema settles.
	db.AutoMigrate(&model.Category{}, &model.Product{}, &model.Transaction{}, &model.User{}, &model.Privilege{}, &model.Role{})

	seedPrivilegesRolesAndAdmin(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Alert events go to RabbitMQ when a broker is configured. A nil publisher
	// is a no-op, so the API runs fine without one.
	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("Warning: AMQP unavailable, alerts will not be queued: %v", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	evaluator := stock.NewEvaluator(cfg.DefaultLowStockThreshold, cfg.HighSeverityRatio)

	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	invService := service.NewInventoryService(productRepo, txRepo, db, wsHub, publisher, evaluator)
	alertService := service.NewAlertService(productRepo, evaluator)
	dashService := service.NewDashboardService(productRepo, txRepo, evaluator)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	productHandler := handler.NewProductHandler(invService)
	stockHandler := handler.NewStockHandler(invService)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	alertHandler := handler.NewAlertHandler(alertService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	app := fiber.New(fiber.Config{
		AppName: "StockDash API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public auth routes.
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Get("/me", authHandler.Me)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// Everything below requires authentication.
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Products
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.GetProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)
	protected.Get("/products/:id/transactions", middleware.RequirePrivilege("transaction:view"), productHandler.GetProductTransactions)

	// Categories
	protected.Get("/categories", middleware.RequirePrivilege("category:view"), categoryHandler.GetCategories)
	protected.Get("/categories/:id", middleware.RequirePrivilege("category:view"), categoryHandler.GetCategory)
	protected.Post("/categories", middleware.RequirePrivilege("category:create"), categoryHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege("category:update"), categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("category:delete"), categoryHandler.DeleteCategory)

	// Stock mutations
	protected.Post("/stock/in", middleware.RequirePrivilege("stock:in"), stockHandler.StockIn)
	protected.Post("/stock/out", middleware.RequirePrivilege("stock:out"), stockHandler.StockOut)

	// Transaction history
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), stockHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), stockHandler.GetTransaction)

	// Alerts
	protected.Get("/alerts", middleware.RequirePrivilege("alert:view"), alertHandler.GetAlerts)
	protected.Get("/alerts/summary", middleware.RequirePrivilege("alert:view"), alertHandler.GetAlertSummary)

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)
	protected.Get("/dashboard/financial", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetFinancialSummary)

	// User management
	protected.Get("/users", middleware.RequireAnyPrivilege("user:view", "user:update"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireAnyPrivilege("user:view", "user:update"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket stream for live transactions and stock alerts.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the
// initial admin user when the database is empty.
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets everything.
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// STAFF gets the day-to-day operational subset.
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffPrivileges, err := privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
		if err != nil {
			log.Printf("Warning: Failed to load staff privileges: %v", err)
		} else {
			db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
			log.Println("STAFF role assigned operational privileges")
		}
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123")
		}
	}
}
