// models/loan.go
package models

import "time"

const LoanTable = "ld_loans"
const LoanItemTable = "ld_loan_items"

type Loan struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	BorrowerID   string     `gorm:"type:uuid;index;not null" json:"borrowerId"`
	ApprovedByID *string    `gorm:"type:uuid" json:"approvedById,omitempty"`
	LoanDate     time.Time  `gorm:"index;not null" json:"loanDate"`
	DueDate      time.Time  `gorm:"index;not null" json:"dueDate"`
	ReturnDate   *time.Time `gorm:"index" json:"returnDate,omitempty"`
	Notes        string     `gorm:"size:255" json:"notes,omitempty"`
	LoanStatus   LoanStatus `gorm:"size:20;index;not null;default:'pending'" json:"loanStatus"`

	Borrower  *User      `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	LoanItems []LoanItem `gorm:"foreignKey:LoanID" json:"loanItems"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoanItem struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID           string         `gorm:"type:uuid;index;not null" json:"loanId"`
	ItemID           string         `gorm:"type:uuid;index;not null" json:"itemId"`
	BorrowedQuantity int            `gorm:"not null" json:"borrowedQuantity"`
	BorrowCondition  *ItemCondition `gorm:"size:20" json:"borrowCondition,omitempty"`
	ReturnCondition  *ItemCondition `gorm:"size:20" json:"returnCondition,omitempty"`
	ReturnedAt       *time.Time     `json:"returnedAt,omitempty"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Loan) TableName() string     { return LoanTable }
func (LoanItem) TableName() string { return LoanItemTable }
