// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"pnt-health-station-api-server/config"
	"pnt-health-station-api-server/internal/api/routes"
	"pnt-health-station-api-server/internal/auth"
	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/database"
	"pnt-health-station-api-server/internal/notify"
	"pnt-health-station-api-server/internal/push"
	"pnt-health-station-api-server/internal/socket"
	"pnt-health-station-api-server/internal/store/mongostore"
)

func main() {
	// .env chỉ dành cho môi trường dev, thiếu file không phải là lỗi.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables.")
	}

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.Init(cfg.JWT.Secret, cfg.JWT.Expiration)

	// 2. Kết nối MongoDB
	db, closeDB, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer closeDB()

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Could not create indexes: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.Station.AdminEmail, cfg.Station.AdminPassword); err != nil {
		log.Fatalf("Could not seed admin account: %v", err)
	}

	// 3. Khởi tạo tầng lưu trữ và các thành phần nghiệp vụ
	st := mongostore.New(db)

	wsHub := socket.NewHub()
	pushSender := push.NewSender(st, st, cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subject)
	notifier := &notify.Notifier{Hub: wsHub, Push: pushSender, Users: st}

	activityLog := core.NewActivityLog(st)
	ledger := core.NewLedger(st, activityLog, notifier)
	engine := core.NewEngine(st, ledger, activityLog, notifier)
	reporter := core.NewReporter(st, st, st)

	// 4. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(cfg, routes.Stores{
		Medications:   st,
		Users:         st,
		Logs:          st,
		Subscriptions: st,
	}, engine, ledger, reporter, activityLog, wsHub)

	// 5. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
