package repository

import (
	"context"

	"shopbot/entity"
)

// AddStarsTransaction appends one row to the Stars ledger.
func (s *Storage) AddStarsTransaction(ctx context.Context, txn *entity.StarsTransaction) error {
	return s.db.WithContext(ctx).Create(txn).Error
}

// StarsHistory returns the user's Stars ledger, newest first.
func (s *Storage) StarsHistory(ctx context.Context, userID int64) ([]entity.StarsTransaction, error) {
	var rows []entity.StarsTransaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
