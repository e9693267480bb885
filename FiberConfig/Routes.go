package FiberConfig

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Exchange/Controllers"
	"Exchange/Engine"
	"Exchange/Models"
	"Exchange/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, engine *Engine.Engine) {
	// Initialize handlers
	authController := Controllers.NewAuthController(db)
	userController := Controllers.NewUserController(db, engine)
	itemController := Controllers.NewItemController(db, engine)
	transactionController := Controllers.NewTransactionController(db, engine)
	taskController := Controllers.NewTaskController(db, engine)
	postingController := Controllers.NewPostingController(db, engine)
	userTaskController := Controllers.NewUserTaskController(db, engine)
	logController := Controllers.NewLogController(db)
	exportController := Controllers.NewExportController(db)

	// API group
	api := app.Group("/api")

	// Auth routes
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Post("/login/reset", middleware.Verify(Models.RoleUser), authController.ResetPassword)

	// User routes
	users := api.Group("/users")
	users.Get("/", middleware.Verify(Models.RoleAdmin), userController.GetUsers)
	users.Post("/", middleware.Verify(Models.RoleAdmin), userController.CreateUser)
	users.Get("/:uid", middleware.Verify(Models.RoleUser), userController.GetUser)
	users.Put("/:uid", middleware.Verify(Models.RoleAdmin), userController.UpdateUser)
	users.Post("/:uid/suspend", middleware.Verify(Models.RoleAdmin), userController.SuspendUser)
	users.Delete("/:uid", middleware.Verify(Models.RoleAdmin), userController.DeleteUser)
	users.Get("/:uid/transactions", middleware.Verify(Models.RoleUser), transactionController.GetUserTransactions)

	// Item catalogue and purchases
	items := api.Group("/items", middleware.Verify(Models.RoleUser))
	items.Get("/", itemController.GetItems)
	items.Post("/", middleware.Verify(Models.RoleAdmin), itemController.CreateItem)
	items.Get("/:id", itemController.GetItem)
	items.Put("/:id", middleware.Verify(Models.RoleAdmin), itemController.UpdateItem)
	items.Delete("/:id", middleware.Verify(Models.RoleAdmin), itemController.DeleteItem)
	items.Post("/:id/buy", itemController.BuyItem)
	items.Post("/:id/preorder", itemController.PreorderItem)

	// Item requests
	itemRequests := api.Group("/itemrequests", middleware.Verify(Models.RoleUser))
	itemRequests.Get("/", middleware.Verify(Models.RoleAdmin), itemController.GetItemRequests)
	itemRequests.Post("/", itemController.CreateItemRequest)
	itemRequests.Delete("/:id", middleware.Verify(Models.RoleAdmin), itemController.DeleteItemRequest)

	// Transaction routes
	transactions := api.Group("/transactions", middleware.Verify(Models.RoleUser))
	transactions.Get("/", middleware.Verify(Models.RoleAdmin), transactionController.GetTransactions)
	transactions.Get("/export", middleware.Verify(Models.RoleAdmin), exportController.ExportTransactions)
	transactions.Get("/:id", transactionController.GetTransaction)
	transactions.Put("/:id", middleware.Verify(Models.RoleAdmin), transactionController.CorrectTransaction)

	// Task definitions
	tasks := api.Group("/tasks", middleware.Verify(Models.RoleUser))
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", middleware.Verify(Models.RoleAdmin), taskController.CreateTask)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Put("/:id", middleware.Verify(Models.RoleAdmin), taskController.UpdateTask)
	tasks.Delete("/:id", middleware.Verify(Models.RoleAdmin), taskController.DeleteTask)
	tasks.Post("/:id/assign", middleware.Verify(Models.RoleAdmin), taskController.AssignTask)

	// Task requests
	taskRequests := api.Group("/taskrequests", middleware.Verify(Models.RoleUser))
	taskRequests.Get("/", taskController.GetTaskRequests)
	taskRequests.Post("/", taskController.CreateTaskRequest)
	taskRequests.Post("/:id/review", middleware.Verify(Models.RoleAdmin), taskController.ReviewTaskRequest)

	// Postings and applications
	postings := api.Group("/postings", middleware.Verify(Models.RoleUser))
	postings.Get("/", postingController.GetPostings)
	postings.Post("/", middleware.Verify(Models.RoleAdmin), postingController.CreatePosting)
	postings.Get("/:id", postingController.GetPosting)
	postings.Post("/:id/close", middleware.Verify(Models.RoleAdmin), postingController.ClosePosting)
	postings.Post("/:id/apply", postingController.Apply)

	applications := api.Group("/applications", middleware.Verify(Models.RoleUser))
	applications.Get("/", postingController.GetApplications)
	applications.Post("/:id/review", middleware.Verify(Models.RoleAdmin), postingController.ReviewApplication)
	applications.Delete("/:id", postingController.CancelApplication)

	// UserTask instances
	userTasks := api.Group("/usertasks", middleware.Verify(Models.RoleUser))
	userTasks.Get("/", userTaskController.GetMyUserTasks)
	userTasks.Get("/all", middleware.Verify(Models.RoleAdmin), userTaskController.GetUserTasks)
	userTasks.Get("/:id", userTaskController.GetUserTask)
	userTasks.Post("/:id/submit", userTaskController.SubmitUserTask)
	userTasks.Post("/:id/review", middleware.Verify(Models.RoleAdmin), userTaskController.ReviewUserTask)
	userTasks.Delete("/:id", userTaskController.CancelUserTask)

	// Audit trail
	api.Get("/logs", middleware.Verify(Models.RoleAdmin), logController.GetLogs)
}

func FiberConfig(engine *Engine.Engine) {
	fmt.Println("Server Up...")
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, engine)
	app.Listen(":3001")
}
