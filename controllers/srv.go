// controllers/srv.go
package controllers

import (
	"errors"
	"log"
	"time"

	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/db"
	"Gin_postgres_redis_loan_desk/loans"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Srv struct {
	Repo *db.Repo
	RDB  *redis.Client
	Cfg  app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{Repo: db.NewRepo(a.DB), RDB: a.RDB, Cfg: a.Config}
}

// --- helpers ---

// fail maps the engine error taxonomy onto HTTP codes.
func fail(c *gin.Context, err error) {
	var short *loans.InsufficientStockError
	switch {
	case errors.As(err, &short):
		c.JSON(409, app.H{
			"error":     short.Error(),
			"itemId":    short.ItemID,
			"shortfall": short.Shortfall(),
		})
	case errors.Is(err, loans.ErrNotFound):
		c.JSON(404, app.H{"error": err.Error()})
	case errors.Is(err, loans.ErrValidation):
		c.JSON(400, app.H{"error": err.Error()})
	case errors.Is(err, loans.ErrNoOpTransition), errors.Is(err, loans.ErrAlreadyReturned):
		c.JSON(409, app.H{"error": err.Error()})
	case errors.Is(err, loans.ErrInvariantViolation):
		// 不该到这里，记日志排查
		log.Printf("ledger invariant violation: %v", err)
		c.JSON(500, app.H{"error": "internal error"})
	default:
		c.JSON(500, app.H{"error": err.Error()})
	}
}

// parseDate accepts RFC3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, loans.WrapValidation("cannot parse date: " + s)
	}
	return t.UTC(), nil
}
