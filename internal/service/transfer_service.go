package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tz-journal/internal/calendar"
	"github.com/tz-journal/internal/models"
)

// TransferRequest represents the create transfer request
type TransferRequest struct {
	AccountID string              `json:"accountId"`
	Type      models.TransferType `json:"type" binding:"required,oneof=Deposit Withdrawal"`
	Amount    float64             `json:"amount" binding:"required,gt=0"`
	Date      string              `json:"date"`
}

// ListTransfers returns the transfers of an account. An empty id means the
// selected account.
func (s *JournalService) ListTransfers(accountID string) ([]models.Transfer, error) {
	data, err := s.store.AccountData(accountID)
	if err != nil {
		return nil, err
	}
	return data.Transfers, nil
}

// CreateTransfer records a deposit or withdrawal and saves. The date defaults
// to today in the journal's zone.
func (s *JournalService) CreateTransfer(ctx context.Context, req *TransferRequest) (*models.Transfer, error) {
	if req.Type != models.TransferDeposit && req.Type != models.TransferWithdrawal {
		return nil, fmt.Errorf("%w: type must be Deposit or Withdrawal", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	accountID := req.AccountID
	if accountID == "" {
		accountID = s.store.CurrentAccountID()
	} else if _, err := s.store.Account(accountID); err != nil {
		return nil, err
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = calendar.DateOf(s.now()).String()
	} else if _, err := calendar.ParseTimestamp(date, s.loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var transfer models.Transfer
	err := s.store.Update(ctx, "transfer.create", func() error {
		var err error
		transfer, err = s.store.AddTransfer(models.Transfer{
			AccountID: accountID,
			Type:      req.Type,
			Amount:    req.Amount,
			Date:      date,
		})
		if err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("transfer_id", transfer.ID).
		Str("account_id", accountID).
		Str("type", string(transfer.Type)).
		Float64("amount", transfer.Amount).
		Msg("transfer recorded")
	return &transfer, nil
}

// DeleteTransfer removes a transfer and saves
func (s *JournalService) DeleteTransfer(ctx context.Context, id int64) error {
	return s.store.Update(ctx, "transfer.delete", func() error {
		return s.store.RemoveTransfer(id)
	})
}
