package processor

// Kind enumerates every command the processor understands. The handler in
// apply is total over this set; anything else is KindUnknown.
type Kind string

const (
	KindStart       Kind = "start"
	KindEarn        Kind = "earn"
	KindBalance     Kind = "balance"
	KindReferrals   Kind = "ref"
	KindLeaderboard Kind = "top"
	KindWithdraw    Kind = "withdraw"
	KindVIPInfo     Kind = "vip"
	KindUnknown     Kind = "unknown"
)

// Command is one normalized inbound update, ready to be applied.
type Command struct {
	ChatID  int64
	Kind    Kind
	RefCode string // /start payload, if any
}

// KindForCallback maps a callback button payload to a command kind.
// Unrecognized payloads map to KindUnknown and never mutate state.
func KindForCallback(data string) Kind {
	switch Kind(data) {
	case KindEarn, KindBalance, KindReferrals, KindLeaderboard, KindWithdraw, KindVIPInfo:
		return Kind(data)
	default:
		return KindUnknown
	}
}

// Status says whether a command took effect or was turned down by one of its
// preconditions. Precondition misses are normal responses, not errors.
type Status string

const (
	StatusOK       Status = "ok"
	StatusRejected Status = "rejected"
)

// TextKey identifies the abstract response; the gateway renders it.
type TextKey string

const (
	KeyWelcome        TextKey = "welcome"
	KeyEarned         TextKey = "earned"
	KeyNotActivated   TextKey = "not_activated"
	KeyCooldown       TextKey = "cooldown"
	KeyBalance        TextKey = "balance"
	KeyReferrals      TextKey = "referrals"
	KeyLeaderboard    TextKey = "leaderboard"
	KeyWithdrawOK     TextKey = "withdraw_ok"
	KeyWithdrawShort  TextKey = "withdraw_short"
	KeyVIPInfo        TextKey = "vip_info"
	KeyUnknown        TextKey = "unknown"
	KeyReferralReward TextKey = "referral_reward"
)

// Response is the single reply a command produces.
type Response struct {
	Status Status
	Key    TextKey
	Data   map[string]any
}

// Notification is a best-effort message to some other chat, sent after the
// transaction committed. Delivery is not part of the consistency guarantee.
type Notification struct {
	ChatID int64
	Key    TextKey
	Data   map[string]any
}

// WithdrawalRequested is emitted once per successful withdraw, after the
// debit committed.
type WithdrawalRequested struct {
	ChatID int64
	Amount int64
}

// ReferralAttributed is emitted once per successful attribution.
type ReferralAttributed struct {
	ReferrerID    int64
	InvitedUserID int64
	Amount        int64
}

// Result bundles the response with post-commit facts and notifications.
type Result struct {
	Response      Response
	Notifications []Notification
	Withdrawal    *WithdrawalRequested
	Referral      *ReferralAttributed
}
