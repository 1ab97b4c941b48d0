package main

import (
	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/config"
	"Gin_postgres_redis_loan_desk/db"
	"Gin_postgres_redis_loan_desk/routes"
	"context"
	"log"
	"os"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	// 每日状态推进
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartSweeper(ctx, db.NewRepo(application.DB), application.RDB, application.Config.SweepHourUTC)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
