package processor

import (
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/models"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/store"
)

// resolveReferral attributes a referral inside the caller's transaction.
// Unknown codes, self-referrals and already-attributed referees are silent
// no-ops, so attribution is single-shot and repeat /starts are harmless.
// Both sides of a successful attribution commit together with the caller's
// own record.
func resolveReferral(tx *store.Tx, referee *models.UserRecord, code string) (*ReferralAttributed, *Notification) {
	if referee.ReferredBy != nil {
		return nil, nil
	}
	referrerID, found := tx.FindByCode(code)
	if !found || referrerID == referee.ChatID {
		return nil, nil
	}
	referrer, err := tx.Get(referrerID)
	if err != nil {
		return nil, nil
	}

	referee.ReferredBy = &referrerID
	referrer.Referrals++
	referrer.Balance += ReferralBonus
	tx.Put(referrer)

	attr := &ReferralAttributed{
		ReferrerID:    referrerID,
		InvitedUserID: referee.ChatID,
		Amount:        ReferralBonus,
	}
	note := &Notification{
		ChatID: referrerID,
		Key:    KeyReferralReward,
		Data: map[string]any{
			"amount":    ReferralBonus,
			"referrals": referrer.Referrals,
		},
	}
	return attr, note
}
