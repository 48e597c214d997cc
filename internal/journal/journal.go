// Package journal keeps the append-only audit trail of money-moving facts:
// withdrawal requests and referral bonuses. It records what the ledger
// already committed; a failed journal write is logged, never propagated
// back into the transaction.
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/models"
)

type Journal struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite journal and runs migrations.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir %q: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.AutoMigrate(&models.WithdrawalRequest{}, &models.ReferralTransaction{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &Journal{db: db}, nil
}

// RecordWithdrawal stores a pending withdrawal request for the given debit.
func (j *Journal) RecordWithdrawal(ctx context.Context, chatID, amount int64) error {
	req := models.WithdrawalRequest{
		ID:     uuid.New().String(),
		ChatID: chatID,
		Amount: amount,
		Status: "pending",
	}
	if err := j.db.WithContext(ctx).Create(&req).Error; err != nil {
		return fmt.Errorf("record withdrawal: %w", err)
	}
	return nil
}

// PendingWithdrawals lists withdrawal requests not yet settled, oldest first.
func (j *Journal) PendingWithdrawals(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var reqs []models.WithdrawalRequest
	err := j.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("list pending withdrawals: %w", err)
	}
	return reqs, nil
}

// TotalReferralEarnings sums all bonuses ever credited to referrerID.
func (j *Journal) TotalReferralEarnings(ctx context.Context, referrerID int64) (int64, error) {
	var total int64
	err := j.db.WithContext(ctx).
		Model(&models.ReferralTransaction{}).
		Where("referrer_id = ?", referrerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum referral earnings: %w", err)
	}
	return total, nil
}

// RecordReferral stores the bonus credited to referrerID for inviting invitedID.
func (j *Journal) RecordReferral(ctx context.Context, referrerID, invitedID, amount int64) error {
	tr := models.ReferralTransaction{
		ReferrerID:    referrerID,
		InvitedUserID: invitedID,
		Amount:        amount,
	}
	if err := j.db.WithContext(ctx).Create(&tr).Error; err != nil {
		return fmt.Errorf("record referral: %w", err)
	}
	return nil
}
