package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
)

// renderText turns an abstract response into user-facing text. Unknown keys
// fall back to the generic reply rather than leaking internals.
func renderText(key processor.TextKey, data map[string]any) string {
	switch key {
	case processor.KeyWelcome:
		return fmt.Sprintf("👋 Welcome!\n\n💎 Earning Bot\n🆔 ID: %v\n\n🔗 Your referral code: %v",
			data["chat_id"], data["ref_code"])
	case processor.KeyEarned:
		return fmt.Sprintf("✅ Earned %v points!\n💳 Balance: %v", data["amount"], data["balance"])
	case processor.KeyNotActivated:
		return "❌ Account not activated.\nSend /start to activate."
	case processor.KeyCooldown:
		return fmt.Sprintf("⏳ Too soon. Next earn in %s.", formatRemaining(data["remaining"]))
	case processor.KeyBalance:
		return fmt.Sprintf("💳 Balance: %v\n⭐ VIP: %s", data["balance"], yesNo(data["vip"]))
	case processor.KeyReferrals:
		return fmt.Sprintf("👥 Referral Code: %v\n👥 Invited: %v\nBonus per referral!",
			data["ref_code"], data["referrals"])
	case processor.KeyLeaderboard:
		return renderLeaderboard(data["entries"])
	case processor.KeyWithdrawOK:
		return fmt.Sprintf("✅ Withdraw request received.\n💳 Balance: %v", data["balance"])
	case processor.KeyWithdrawShort:
		return fmt.Sprintf("❌ Minimum %d required. You are %v short.",
			processor.WithdrawThreshold, data["shortfall"])
	case processor.KeyVIPInfo:
		return "⭐ VIP Plan\n✔ Double earning\n✔ Priority withdraw\n\nContact Admin."
	case processor.KeyReferralReward:
		return fmt.Sprintf("🎉 New referral! +%v points.\n👥 Invited total: %v",
			data["amount"], data["referrals"])
	default:
		return "Unknown command"
	}
}

func renderLeaderboard(v any) string {
	entries, ok := v.([]processor.Entry)
	if !ok || len(entries) == 0 {
		return "🏆 Top earners:\n(no one yet)"
	}
	var b strings.Builder
	b.WriteString("🏆 Top earners:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%d. %d — %d", e.Rank, e.ChatID, e.Balance)
	}
	return b.String()
}

func formatRemaining(v any) string {
	d, ok := v.(time.Duration)
	if !ok {
		return fmt.Sprint(v)
	}
	return d.Round(time.Second).String()
}

func yesNo(v any) string {
	if b, ok := v.(bool); ok && b {
		return "YES"
	}
	return "NO"
}
