// controllers/item_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in struct {
		Name            string               `json:"name" binding:"required"`
		Description     string               `json:"description"`
		Brand           string               `json:"brand"`
		Category        models.ItemCategory  `json:"category" binding:"required"`
		Stock           int                  `json:"stock"`
		ConditionStatus models.ItemCondition `json:"conditionStatus"`
		StatusNotes     string               `json:"statusNotes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Stock < 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "stock cannot be negative"})
		return
	}
	condition := in.ConditionStatus
	if condition == "" {
		condition = models.ConditionGood
	}
	availability := models.ItemAvailable
	if in.Stock == 0 {
		availability = models.ItemBorrowed
	}

	it := &models.Item{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Description:        in.Description,
		Brand:              in.Brand,
		Category:           in.Category,
		Stock:              in.Stock,
		ConditionStatus:    condition,
		AvailabilityStatus: availability,
		StatusNotes:        in.StatusNotes,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Repo.ListItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// 只能改目录字段，库存计数由 ledger 管
func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in map[string]any
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	for _, k := range []string{"name", "description", "brand", "category", "condition_status", "availability_status", "status_notes"} {
		if v, ok := in[k]; ok {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "no updatable fields in request"})
		return
	}
	it, err := ic.Repo.UpdateItem(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}
