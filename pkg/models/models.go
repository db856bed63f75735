package models

import (
	"time"
)

// Book is one physical book in the collection. BookID is the staff-assigned
// catalog serial number and is unique across live records; ID orders rows
// by insertion. The status fields move together: a borrowed book carries
// both BorrowedDate and BorrowerCardNumber, an available book carries
// neither.
type Book struct {
	ID                 uint   `gorm:"primaryKey"`
	BookID             int    `gorm:"uniqueIndex;not null;check:book_id >= 100000 AND book_id <= 999999"`
	Title              string `gorm:"not null"`
	Author             string `gorm:"not null"`
	IsBorrowed         bool   `gorm:"not null;default:false"`
	BorrowedDate       *time.Time
	BorrowerCardNumber *int `gorm:"check:borrower_card_number >= 100000 AND borrower_card_number <= 999999"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
