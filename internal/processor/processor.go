// Package processor applies normalized commands to the ledger, one store
// transaction per command. Read-only commands never commit.
package processor

import (
	"time"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/store"
)

const (
	// EarnCooldown is the minimum gap between successful earns.
	EarnCooldown = time.Hour
	// EarnBonus is granted per earn; VIP accounts get EarnBonusVIP.
	EarnBonus    int64 = 10
	EarnBonusVIP int64 = 20
	// ReferralBonus is credited to the referrer on attribution.
	ReferralBonus int64 = 50
	// WithdrawThreshold is both the minimum balance and the debited amount.
	WithdrawThreshold int64 = 100
	// LeaderboardSize caps the ranking.
	LeaderboardSize = 10
)

type Processor struct {
	store *store.Store
	now   func() time.Time
}

func New(s *store.Store) *Processor {
	return &Processor{store: s, now: time.Now}
}

// Handle runs cmd inside one store transaction. Commands that stage no
// mutation roll back; the rest commit. The returned error is a store
// failure only — precondition misses come back as rejected Responses.
func (p *Processor) Handle(cmd Command) (Result, error) {
	tx := p.store.Begin()

	res, mutated := p.apply(tx, cmd)
	if !mutated {
		tx.Rollback()
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// apply is total over Kind. It reports whether it staged mutations that
// must commit.
func (p *Processor) apply(tx *store.Tx, cmd Command) (Result, bool) {
	switch cmd.Kind {
	case KindStart:
		return p.applyStart(tx, cmd)
	case KindEarn:
		return p.applyEarn(tx, cmd)
	case KindBalance:
		u := tx.GetOrCreate(cmd.ChatID)
		return ok(KeyBalance, map[string]any{
			"balance": u.Balance,
			"vip":     u.VIP,
		}), false
	case KindReferrals:
		u := tx.GetOrCreate(cmd.ChatID)
		return ok(KeyReferrals, map[string]any{
			"ref_code":  u.ReferralCode,
			"referrals": u.Referrals,
		}), false
	case KindLeaderboard:
		return ok(KeyLeaderboard, map[string]any{
			"entries": Rank(tx.Snapshot(), LeaderboardSize),
		}), false
	case KindWithdraw:
		return p.applyWithdraw(tx, cmd)
	case KindVIPInfo:
		return ok(KeyVIPInfo, nil), false
	case KindUnknown:
		return ok(KeyUnknown, nil), false
	default:
		return ok(KeyUnknown, nil), false
	}
}

func (p *Processor) applyStart(tx *store.Tx, cmd Command) (Result, bool) {
	u := tx.GetOrCreate(cmd.ChatID)
	u.Activated = true

	res := ok(KeyWelcome, map[string]any{
		"chat_id":  u.ChatID,
		"ref_code": u.ReferralCode,
	})
	if cmd.RefCode != "" {
		if attr, note := resolveReferral(tx, u, cmd.RefCode); attr != nil {
			res.Referral = attr
			res.Notifications = append(res.Notifications, *note)
		}
	}
	tx.Put(u)
	return res, true
}

func (p *Processor) applyEarn(tx *store.Tx, cmd Command) (Result, bool) {
	u := tx.GetOrCreate(cmd.ChatID)
	if !u.Activated {
		return rejected(KeyNotActivated, nil), false
	}

	now := p.now()
	if u.LastEarnAt != nil {
		if elapsed := now.Sub(*u.LastEarnAt); elapsed < EarnCooldown {
			return rejected(KeyCooldown, map[string]any{
				"remaining": EarnCooldown - elapsed,
			}), false
		}
	}

	bonus := EarnBonus
	if u.VIP {
		bonus = EarnBonusVIP
	}
	u.Balance += bonus
	u.LastEarnAt = &now
	tx.Put(u)

	return ok(KeyEarned, map[string]any{
		"amount":  bonus,
		"balance": u.Balance,
	}), true
}

func (p *Processor) applyWithdraw(tx *store.Tx, cmd Command) (Result, bool) {
	u := tx.GetOrCreate(cmd.ChatID)
	if u.Balance < WithdrawThreshold {
		return rejected(KeyWithdrawShort, map[string]any{
			"shortfall": WithdrawThreshold - u.Balance,
			"balance":   u.Balance,
		}), false
	}

	u.Balance -= WithdrawThreshold
	tx.Put(u)

	res := ok(KeyWithdrawOK, map[string]any{
		"amount":  WithdrawThreshold,
		"balance": u.Balance,
	})
	res.Withdrawal = &WithdrawalRequested{ChatID: u.ChatID, Amount: WithdrawThreshold}
	return res, true
}

func ok(key TextKey, data map[string]any) Result {
	return Result{Response: Response{Status: StatusOK, Key: key, Data: data}}
}

func rejected(key TextKey, data map[string]any) Result {
	return Result{Response: Response{Status: StatusRejected, Key: key, Data: data}}
}
