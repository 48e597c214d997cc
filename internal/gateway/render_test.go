package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
)

func TestRenderText_Welcome(t *testing.T) {
	text := renderText(processor.KeyWelcome, map[string]any{
		"chat_id":  int64(42),
		"ref_code": "a1b2c3d4",
	})
	assert.Contains(t, text, "42")
	assert.Contains(t, text, "a1b2c3d4")
}

func TestRenderText_CooldownDuration(t *testing.T) {
	text := renderText(processor.KeyCooldown, map[string]any{
		"remaining": 42*time.Minute + 500*time.Millisecond,
	})
	assert.Contains(t, text, "42m1s")
}

func TestRenderText_Balance(t *testing.T) {
	text := renderText(processor.KeyBalance, map[string]any{
		"balance": int64(70),
		"vip":     true,
	})
	assert.Contains(t, text, "70")
	assert.Contains(t, text, "YES")
}

func TestRenderText_Leaderboard(t *testing.T) {
	text := renderText(processor.KeyLeaderboard, map[string]any{
		"entries": []processor.Entry{
			{Rank: 1, ChatID: 10, Balance: 100},
			{Rank: 2, ChatID: 3, Balance: 30},
		},
	})
	assert.Contains(t, text, "1. 10 — 100")
	assert.Contains(t, text, "2. 3 — 30")

	empty := renderText(processor.KeyLeaderboard, map[string]any{
		"entries": []processor.Entry{},
	})
	assert.Contains(t, empty, "no one yet")
}

func TestRenderText_UnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, "Unknown command", renderText(processor.TextKey("bogus"), nil))
}
