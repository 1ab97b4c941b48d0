package models

import "time"

const UserTable = "ld_users"

// User is the borrower directory record. The loan engine only reads it.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"size:200;not null" json:"name"`
	StudentID    string `gorm:"size:60;uniqueIndex;not null" json:"studentId"`
	MajorName    string `gorm:"size:120" json:"majorName,omitempty"`
	AcademicYear string `gorm:"size:20" json:"academicYear,omitempty"`
	PhoneNumber  string `gorm:"size:45" json:"phoneNumber,omitempty"`
	Organization string `gorm:"size:120" json:"organization,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
