package models

import (
	"time"
)

type WithdrawalRequest struct {
	ID        string `gorm:"primaryKey;size:36"`
	ChatID    int64  `gorm:"not null;index"`
	Amount    int64  `gorm:"not null"`
	Status    string `gorm:"default:'pending'"`
	CreatedAt time.Time
}
