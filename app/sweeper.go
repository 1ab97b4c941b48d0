// app/sweeper.go
package app

import (
	"Gin_postgres_redis_loan_desk/db"
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StartSweeper runs the daily status-promotion sweep in the background. The
// sweep itself is idempotent; the Redis SetNX key just keeps multiple
// replicas (or a restart) from re-running it for the same day.
func StartSweeper(ctx context.Context, repo *db.Repo, rdb *redis.Client, hourUTC int) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				now = now.UTC()
				if now.Hour() != hourUTC {
					continue
				}
				RunSweepOnce(ctx, repo, rdb, now)
			}
		}
	}()
}

// RunSweepOnce runs the sweep for the given day unless it already ran today.
func RunSweepOnce(ctx context.Context, repo *db.Repo, rdb *redis.Client, today time.Time) {
	key := "loan:sweep:" + today.Format("2006-01-02")
	ok, err := rdb.SetNX(ctx, key, "1", 48*time.Hour).Result()
	if err != nil {
		log.Printf("sweep lock: %v", err)
		return
	}
	if !ok {
		return // 今天已经跑过
	}
	res, err := repo.RunDailySweep(ctx, today)
	if err != nil {
		log.Printf("daily sweep: %v", err)
		// 让下次重试
		_ = rdb.Del(ctx, key).Err()
		return
	}
	log.Printf("daily sweep: %d promoted to active, %d marked overdue", res.PromotedActive, res.MarkedOverdue)
}
