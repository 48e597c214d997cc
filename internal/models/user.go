package models

import (
	"time"
)

// UserRecord is one entry in the ledger file, keyed by Telegram chat ID.
// ChatID is the map key and is not serialized with the record itself.
type UserRecord struct {
	ChatID       int64      `json:"-"`
	Balance      int64      `json:"balance"`
	VIP          bool       `json:"vip"`
	ReferralCode string     `json:"ref_code"`
	Referrals    int        `json:"referrals"`
	ReferredBy   *int64     `json:"referred_by,omitempty"`
	Activated    bool       `json:"activated"`
	LastEarnAt   *time.Time `json:"last_earn_at,omitempty"`
}

// Clone returns a deep copy so staged mutations never alias committed state.
func (u *UserRecord) Clone() *UserRecord {
	c := *u
	if u.ReferredBy != nil {
		v := *u.ReferredBy
		c.ReferredBy = &v
	}
	if u.LastEarnAt != nil {
		t := *u.LastEarnAt
		c.LastEarnAt = &t
	}
	return &c
}
