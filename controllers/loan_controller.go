// controllers/loan_controller.go
package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/db"
	"Gin_postgres_redis_loan_desk/models"

	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type loanLineReq struct {
	ItemID           string                `json:"itemId" binding:"required"`
	BorrowedQuantity int                   `json:"borrowedQuantity" binding:"required"`
	BorrowCondition  *models.ItemCondition `json:"borrowCondition,omitempty"`
}

func toLineInputs(lines []loanLineReq) []db.LoanLineInput {
	out := make([]db.LoanLineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, db.LoanLineInput{
			ItemID:           l.ItemID,
			BorrowedQuantity: l.BorrowedQuantity,
			BorrowCondition:  l.BorrowCondition,
		})
	}
	return out
}

// 创建借用单（默认 pending，不占库存）
func (lc *LoanController) CreateLoan(c *gin.Context) {
	var in struct {
		BorrowerID   string            `json:"borrowerId" binding:"required"`
		LoanDate     string            `json:"loanDate" binding:"required"`
		DueDate      string            `json:"dueDate" binding:"required"`
		Notes        string            `json:"notes"`
		LoanStatus   models.LoanStatus `json:"loanStatus"`
		ApprovedByID *string           `json:"approvedById"`
		LoanItems    []loanLineReq     `json:"loanItems" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	loanDate, err := parseDate(in.LoanDate)
	if err != nil {
		fail(c, err)
		return
	}
	dueDate, err := parseDate(in.DueDate)
	if err != nil {
		fail(c, err)
		return
	}

	loan, err := lc.Repo.CreateLoan(c.Request.Context(), db.CreateLoanInput{
		BorrowerID:   in.BorrowerID,
		LoanDate:     loanDate,
		DueDate:      dueDate,
		Notes:        in.Notes,
		LoanStatus:   in.LoanStatus,
		ApprovedByID: in.ApprovedByID,
		Items:        toLineInputs(in.LoanItems),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// 列表 ?status=&overdue=&from=&to=&sortBy=priority|loan_date|due_date
func (lc *LoanController) ListLoans(c *gin.Context) {
	q := db.LoanQuery{
		Status: models.LoanStatus(c.Query("status")),
		SortBy: c.Query("sortBy"),
		Today:  time.Now().UTC(),
	}
	if v := c.Query("overdue"); v != "" {
		b := v == "true" || v == "1"
		q.Overdue = &b
	}
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fail(c, err)
			return
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fail(c, err)
			return
		}
		q.To = &t
	}

	ls, err := lc.Repo.ListLoans(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": ls})
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	loan, err := lc.Repo.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (lc *LoanController) ListLoansByStatus(c *gin.Context) {
	ls, err := lc.Repo.ListLoans(c.Request.Context(), db.LoanQuery{
		Status: models.LoanStatus(c.Param("status")),
		Today:  time.Now().UTC(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": ls})
}

// 更新：日期/备注/物品清单/状态，整体一个事务
func (lc *LoanController) UpdateLoan(c *gin.Context) {
	var in struct {
		LoanDate     *string            `json:"loanDate"`
		DueDate      *string            `json:"dueDate"`
		Notes        *string            `json:"notes"`
		LoanStatus   *models.LoanStatus `json:"loanStatus"`
		ApprovedByID *string            `json:"approvedById"`
		LoanItems    []loanLineReq      `json:"loanItems"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	patch := db.UpdateLoanInput{
		Notes:        in.Notes,
		LoanStatus:   in.LoanStatus,
		ApprovedByID: in.ApprovedByID,
	}
	if in.LoanDate != nil {
		t, err := parseDate(*in.LoanDate)
		if err != nil {
			fail(c, err)
			return
		}
		patch.LoanDate = &t
	}
	if in.DueDate != nil {
		t, err := parseDate(*in.DueDate)
		if err != nil {
			fail(c, err)
			return
		}
		patch.DueDate = &t
	}
	if in.LoanItems != nil {
		patch.Items = toLineInputs(in.LoanItems)
	}

	loan, err := lc.Repo.UpdateLoan(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// 状态流转（approve / cancel / …）
func (lc *LoanController) TransitionLoan(c *gin.Context) {
	var in struct {
		LoanStatus   models.LoanStatus `json:"loanStatus" binding:"required"`
		ApprovedByID *string           `json:"approvedById"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	loan, err := lc.Repo.TransitionLoan(c.Request.Context(), c.Param("id"), in.LoanStatus, in.ApprovedByID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// 归还：释放全部预留，记录每行归还状态
func (lc *LoanController) ReturnLoan(c *gin.Context) {
	var in struct {
		ReturnDate string `json:"returnDate"`
		Conditions []struct {
			ItemID          string               `json:"itemId" binding:"required"`
			ReturnCondition models.ItemCondition `json:"returnCondition" binding:"required"`
		} `json:"conditions"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	returnDate := time.Now().UTC()
	if in.ReturnDate != "" {
		t, err := parseDate(in.ReturnDate)
		if err != nil {
			fail(c, err)
			return
		}
		returnDate = t
	}
	conditions := make(map[string]models.ItemCondition, len(in.Conditions))
	for _, cond := range in.Conditions {
		conditions[cond.ItemID] = cond.ReturnCondition
	}

	loan, err := lc.Repo.ReturnLoan(c.Request.Context(), c.Param("id"), returnDate, conditions)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// 手动触发每日状态推进
func (lc *LoanController) RunSweep(c *gin.Context) {
	res, err := lc.Repo.RunDailySweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
