// Package store owns the persistent user ledger: a single JSON file mapping
// chat IDs to user records, mutated only through whole-store transactions.
package store

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/models"
)

var (
	// ErrStoreIO marks a failed write of the ledger file. The transaction
	// that hit it has been rolled back.
	ErrStoreIO = errors.New("ledger write failed")
	// ErrStoreCorrupt marks an unparseable ledger file at startup.
	ErrStoreCorrupt = errors.New("ledger file corrupt")
	// ErrNotFound is returned by Get for unseen chat IDs.
	ErrNotFound = errors.New("record not found")
)

// Store is the ledger. All access goes through Begin; only one transaction
// may be open at a time, so every read-modify-write cycle is serialized.
type Store struct {
	mu    sync.Mutex
	path  string
	users map[int64]*models.UserRecord
	codes map[string]int64 // referral code -> chat ID, rebuilt on load
}

// Open loads the ledger from path. A missing file yields an empty store.
// An unparseable file also yields an empty store, but the error (wrapping
// ErrStoreCorrupt) is returned so the caller can log the data loss.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		users: make(map[int64]*models.UserRecord),
		codes: make(map[string]int64),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		s.users = make(map[int64]*models.UserRecord)
		return s, fmt.Errorf("parse ledger %s: %w: %w", path, ErrStoreCorrupt, err)
	}

	for id, u := range s.users {
		u.ChatID = id
		if u.ReferralCode != "" {
			s.codes[u.ReferralCode] = id
		}
	}
	return s, nil
}

// Begin acquires exclusive access to the whole record set and returns an
// open transaction. It blocks until any prior transaction finishes.
func (s *Store) Begin() *Tx {
	s.mu.Lock()
	return &Tx{
		s:      s,
		staged: make(map[int64]*models.UserRecord),
	}
}

// Tx is one open transaction. Mutations staged with Put (or records created
// by GetOrCreate) are invisible outside the transaction until Commit.
type Tx struct {
	s      *Store
	staged map[int64]*models.UserRecord
	done   bool
}

// Get returns a copy of the record for id, or ErrNotFound. Mutating the
// returned record has no effect unless it is staged back with Put.
func (tx *Tx) Get(id int64) (*models.UserRecord, error) {
	if u, ok := tx.staged[id]; ok {
		return u, nil
	}
	u, ok := tx.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

// GetOrCreate returns the record for id, creating and staging a default one
// if absent: zero balance, no referrals, no referrer, a fresh referral code
// derived from the chat ID.
func (tx *Tx) GetOrCreate(id int64) *models.UserRecord {
	if u, err := tx.Get(id); err == nil {
		return u
	}
	u := &models.UserRecord{
		ChatID:       id,
		ReferralCode: tx.deriveCode(id),
	}
	tx.staged[id] = u
	return u
}

// Put stages a mutation of u, visible within this transaction only.
func (tx *Tx) Put(u *models.UserRecord) {
	tx.staged[u.ChatID] = u
}

// FindByCode resolves a referral code to a chat ID, staged records included.
func (tx *Tx) FindByCode(code string) (int64, bool) {
	for id, u := range tx.staged {
		if u.ReferralCode == code {
			return id, true
		}
	}
	id, ok := tx.s.codes[code]
	return id, ok
}

// Snapshot returns copies of every record as of this transaction, staged
// mutations applied. Order is unspecified.
func (tx *Tx) Snapshot() []*models.UserRecord {
	out := make([]*models.UserRecord, 0, len(tx.s.users)+len(tx.staged))
	for id, u := range tx.s.users {
		if _, ok := tx.staged[id]; ok {
			continue
		}
		out = append(out, u.Clone())
	}
	for _, u := range tx.staged {
		out = append(out, u.Clone())
	}
	return out
}

// Commit applies staged mutations and rewrites the entire ledger file
// atomically (write to temp, then rename). On write failure the in-memory
// state reverts to the pre-transaction snapshot and ErrStoreIO is returned.
// The transaction is finished either way.
func (tx *Tx) Commit() error {
	defer tx.finish()
	if tx.done {
		return errors.New("transaction already finished")
	}

	next := make(map[int64]*models.UserRecord, len(tx.s.users)+len(tx.staged))
	for id, u := range tx.s.users {
		next[id] = u
	}
	for id, u := range tx.staged {
		next[id] = u
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp := tx.s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", tmp, ErrStoreIO, err)
	}
	if err := os.Rename(tmp, tx.s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w: %w", tx.s.path, ErrStoreIO, err)
	}

	tx.s.users = next
	for _, u := range tx.staged {
		if u.ReferralCode != "" {
			tx.s.codes[u.ReferralCode] = u.ChatID
		}
	}
	return nil
}

// Rollback discards staged mutations and releases exclusivity. Safe to call
// after Commit; it then does nothing.
func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.finish()
}

func (tx *Tx) finish() {
	if tx.done {
		return
	}
	tx.done = true
	tx.staged = nil
	tx.s.mu.Unlock()
}

// deriveCode builds the referral code for a chat ID: the first 8 hex digits
// of md5(id), extended one digit at a time on the off chance of a clash with
// an existing code belonging to a different user.
func (tx *Tx) deriveCode(id int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(id, 10)))
	full := hex.EncodeToString(sum[:])
	for n := 8; n <= len(full); n++ {
		code := full[:n]
		if owner, ok := tx.FindByCode(code); !ok || owner == id {
			return code
		}
	}
	return full
}
