package app

import (
	"Gin_postgres_redis_loan_desk/config"
	"Gin_postgres_redis_loan_desk/db"
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config
}

// Config 从环境变量读取
type Config struct {
	RedisAddr    string
	RedisPwd     string
	WebOrigin    string
	SweepHourUTC int
}

func MustNew() *App {
	cfg := loadConfig()

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return &App{Router: r, DB: dbConn, RDB: rdb, Config: cfg}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	sweepHour := 2
	if v := config.Get("SWEEP_HOUR_UTC", ""); v != "" {
		if d, err := time.ParseDuration(v + "h"); err == nil {
			sweepHour = int(d.Hours()) % 24
		}
	}
	origin := strings.TrimSpace(config.Get("WEB_ORIGIN", "http://localhost:5173"))
	return Config{
		RedisAddr:    config.Get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:     config.Get("REDIS_PASSWORD", ""),
		WebOrigin:    origin,
		SweepHourUTC: sweepHour,
	}
}
