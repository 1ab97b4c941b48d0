package routes

import (
	"Gin_postgres_redis_loan_desk/app"
	"Gin_postgres_redis_loan_desk/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	loanCtl := controllers.NewLoanController(s)
	itemCtl := controllers.NewItemController(s)
	userCtl := controllers.NewUserController(s)

	// ------------------------------
	// 借用单
	// ------------------------------
	loan := r.Group("/loan")
	{
		loan.POST("", loanCtl.CreateLoan)
		loan.GET("", loanCtl.ListLoans) // ?status=&overdue=&from=&to=&sortBy=
		loan.GET("/:id", loanCtl.GetLoan)
		loan.GET("/status/:status", loanCtl.ListLoansByStatus)
		loan.PUT("/:id", loanCtl.UpdateLoan)
		loan.POST("/:id/transition", loanCtl.TransitionLoan)
		loan.POST("/:id/return", loanCtl.ReturnLoan)
		loan.POST("/sweep", loanCtl.RunSweep)
	}

	// ------------------------------
	// 物品目录
	// ------------------------------
	item := r.Group("/item")
	{
		item.POST("", itemCtl.CreateItem)
		item.GET("", itemCtl.ListItems)
		item.GET("/:id", itemCtl.GetItem)
		item.PUT("/:id", itemCtl.UpdateItem)
	}

	// ------------------------------
	// 借用人
	// ------------------------------
	user := r.Group("/user")
	{
		user.POST("", userCtl.CreateUser)
		user.GET("", userCtl.ListUsers) // ?q=&page=&size=
		user.GET("/:id", userCtl.GetUser)
		user.PUT("/:id", userCtl.UpdateUser)
	}
}
