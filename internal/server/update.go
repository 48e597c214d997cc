package server

import (
	"encoding/json"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
)

func parseUpdate(body []byte) (telego.Update, error) {
	var upd telego.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return telego.Update{}, err
	}
	return upd, nil
}

// commandFromUpdate normalizes a Telegram update into a Command. Messages
// carry /start (with an optional referral code); everything else typed is
// unknown. Callback payloads map straight onto command kinds. The second
// return value is the callback ID to acknowledge, if any.
func commandFromUpdate(upd telego.Update) (processor.Command, string, error) {
	switch {
	case upd.Message != nil:
		chatID := upd.Message.Chat.ID
		if chatID == 0 {
			return processor.Command{}, "", errInvalidUpdate
		}

		text := strings.TrimSpace(upd.Message.Text)
		if strings.HasPrefix(text, "/start") {
			cmd := processor.Command{ChatID: chatID, Kind: processor.KindStart}
			if parts := strings.Fields(text); len(parts) > 1 {
				cmd.RefCode = parts[1]
			}
			return cmd, "", nil
		}
		return processor.Command{ChatID: chatID, Kind: processor.KindUnknown}, "", nil

	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if cb.From.ID == 0 {
			return processor.Command{}, "", errInvalidUpdate
		}
		return processor.Command{
			ChatID: cb.From.ID,
			Kind:   processor.KindForCallback(cb.Data),
		}, cb.ID, nil

	default:
		return processor.Command{}, "", errInvalidUpdate
	}
}
