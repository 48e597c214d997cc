package processor

import (
	"sort"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/models"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank    int
	ChatID  int64
	Balance int64
}

// Rank orders records by balance descending, chat ID ascending on ties, and
// truncates to the top n. Deterministic for unchanged input.
func Rank(records []*models.UserRecord, n int) []Entry {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Balance != records[j].Balance {
			return records[i].Balance > records[j].Balance
		}
		return records[i].ChatID < records[j].ChatID
	})
	if len(records) > n {
		records = records[:n]
	}
	entries := make([]Entry, len(records))
	for i, u := range records {
		entries[i] = Entry{Rank: i + 1, ChatID: u.ChatID, Balance: u.Balance}
	}
	return entries
}
