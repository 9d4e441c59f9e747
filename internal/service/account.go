// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/model"
	"casino-bot/internal/repository"
)

// ErrInvalidAmount is returned for admin adjustments that are not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// AccountService handles user accounts and is the casino's BalanceStore.
type AccountService struct {
	userRepo        *repository.UserRepository
	txRepo          *repository.TransactionRepository
	startingBalance int64
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	startingBalance int64,
) *AccountService {
	return &AccountService{
		userRepo:        userRepo,
		txRepo:          txRepo,
		startingBalance: startingBalance,
	}
}

// EnsureUser ensures a user exists, creating one with the starting balance
// if necessary. Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username, s.startingBalance)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	if created {
		desc := "开户赠送"
		if _, err := s.txRepo.Create(ctx, telegramID, s.startingBalance, model.TxTypeInitial, &desc); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to record initial balance")
		}
	}

	if !created && user.Username != username && username != "" {
		if err := s.userRepo.UpdateUsername(ctx, telegramID, username); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to update username")
		}
		user.Username = username
	}

	return user, created, nil
}

// GetBalance retrieves a user's current balance.
func (s *AccountService) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// ApplyDelta adds a signed amount to the balance and records it in the
// ledger under reason, atomically.
func (s *AccountService) ApplyDelta(ctx context.Context, telegramID int64, delta int64, reason string) error {
	user, err := s.txRepo.ApplyDelta(ctx, telegramID, delta, reason, nil)
	if err != nil {
		return err
	}

	log.Debug().
		Int64("user_id", telegramID).
		Int64("delta", delta).
		Int64("balance", user.Balance).
		Str("reason", reason).
		Msg("Balance updated")
	return nil
}

// AdminAdjust adds (or with negative sign, subtracts) coins on behalf of an
// admin. amount must be positive; subtract selects the direction.
func (s *AccountService) AdminAdjust(ctx context.Context, telegramID int64, amount int64, subtract bool) (*model.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	txType := model.TxTypeAdminAdd
	if subtract {
		amount = -amount
		txType = model.TxTypeAdminSub
	}
	return s.txRepo.ApplyDelta(ctx, telegramID, amount, txType, nil)
}

// AdminSet sets the balance to an exact value and records the difference.
func (s *AccountService) AdminSet(ctx context.Context, telegramID int64, balance int64) (*model.User, error) {
	if balance < 0 {
		return nil, ErrInvalidAmount
	}

	before, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.SetBalance(ctx, telegramID, balance)
	if err != nil {
		return nil, err
	}

	if _, err := s.txRepo.Create(ctx, telegramID, balance-before.Balance, model.TxTypeAdminSet, nil); err != nil {
		log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to record admin set")
	}
	return user, nil
}
