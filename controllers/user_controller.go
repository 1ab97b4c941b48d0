// controllers/user_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Name         string `json:"name" binding:"required"`
		StudentID    string `json:"studentId" binding:"required"`
		MajorName    string `json:"majorName"`
		AcademicYear string `json:"academicYear"`
		PhoneNumber  string `json:"phoneNumber"`
		Organization string `json:"organization"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		StudentID:    in.StudentID,
		MajorName:    in.MajorName,
		AcademicYear: in.AcademicYear,
		PhoneNumber:  in.PhoneNumber,
		Organization: in.Organization,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	var in map[string]any
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	for _, k := range []string{"name", "major_name", "academic_year", "phone_number", "organization"} {
		if v, ok := in[k]; ok {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "no updatable fields in request"})
		return
	}
	u, err := uc.Repo.UpdateUser(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
