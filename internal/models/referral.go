package models

import (
	"time"
)

type ReferralTransaction struct {
	ID            uint  `gorm:"primaryKey"`
	ReferrerID    int64 `gorm:"not null;index"`
	InvitedUserID int64 `gorm:"not null;index"`
	Amount        int64 `gorm:"not null"`
	CreatedAt     time.Time
}
