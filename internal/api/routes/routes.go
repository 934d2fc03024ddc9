// server/internal/api/routes/routes.go
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/config"
	"pnt-health-station-api-server/internal/api/handlers"
	"pnt-health-station-api-server/internal/api/middleware"
	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/socket"
	"pnt-health-station-api-server/internal/store"
)

// Stores gom các store mà router cần để dựng handler.
type Stores struct {
	Medications   store.MedicationStore
	Users         store.UserStore
	Logs          store.LogStore
	Subscriptions store.SubscriptionStore
}

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route.
func SetupRouter(
	cfg config.Config,
	stores Stores,
	engine *core.Engine,
	ledger *core.Ledger,
	reporter *core.Reporter,
	activityLog *core.ActivityLog,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Khởi tạo các handlers
	userHandler := &handlers.UserHandler{Users: stores.Users, Log: activityLog, AllowedDomain: cfg.Station.AllowedEmailDomain}
	medicationHandler := &handlers.MedicationHandler{Ledger: ledger, Meds: stores.Medications}
	requestHandler := &handlers.RequestHandler{Engine: engine}
	logHandler := &handlers.LogHandler{Logs: stores.Logs}
	reportHandler := &handlers.ReportHandler{Reporter: reporter}
	notificationHandler := &handlers.NotificationHandler{Subs: stores.Subscriptions, VAPIDPublicKey: cfg.Push.VAPIDPublicKey}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// Route cho WebSocket (token đi qua query param)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}
		apiV1.GET("/notifications/public-key", notificationHandler.GetVAPIDPublicKey)

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===
		authenticated := apiV1.Group("/")
		authenticated.Use(middleware.Authenticate())
		{
			// Hồ sơ cá nhân
			authenticated.GET("/profile", userHandler.GetProfile)
			authenticated.POST("/profile", userHandler.UpdateProfile)

			// Phiếu yêu cầu thuốc: ai cũng tạo và xem được (engine tự
			// giới hạn phạm vi nhìn thấy theo vai trò).
			requests := authenticated.Group("/requests")
			{
				requests.POST("/", requestHandler.CreateRequest)
				requests.GET("/", requestHandler.GetRequests)
				requests.GET("/:id", requestHandler.GetRequestByID)
			}

			// Danh mục thuốc: mọi người xem được để chọn khi tạo phiếu.
			authenticated.GET("/medications", medicationHandler.GetAllMedications)

			// Web Push subscription của chính mình
			notifications := authenticated.Group("/notifications")
			{
				notifications.POST("/subscribe", notificationHandler.Subscribe)
				notifications.POST("/unsubscribe", notificationHandler.Unsubscribe)
			}

			// Nhóm nghiệp vụ của phòng y tế, yêu cầu STAFF hoặc ADMIN
			staff := authenticated.Group("/")
			staff.Use(middleware.Authorize(models.RoleStaff, models.RoleAdmin))
			{
				staff.PUT("/requests/:id/process", requestHandler.ProcessRequest)

				staff.POST("/medications", medicationHandler.CreateMedication)
				staff.PUT("/medications/:id/restock", medicationHandler.Restock)
				staff.POST("/medications/:id/transfer", medicationHandler.Transfer)

				staff.GET("/logs", logHandler.GetActivityLogs)

				staff.GET("/reports/dispensed", reportHandler.GetDispensedItems)
				staff.GET("/reports/monthly", reportHandler.GetMonthlyReport)
			}

			// Nhóm quản trị, chỉ ADMIN
			admin := authenticated.Group("/admin")
			admin.Use(middleware.Authorize(models.RoleAdmin))
			{
				admin.POST("/users", userHandler.CreateUser)
				admin.GET("/users", userHandler.GetAllUsers)
			}
		}
	}

	return router
}
