package transaction

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/entry"
)

// InvalidAmountError is returned for amounts below zero.
type InvalidAmountError struct {
	Value int64
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("transaction amount must not be negative, got %d", e.Value)
}

// TitleTooLongError is returned for titles longer than MaxTitleLength runes
// after normalization.
type TitleTooLongError struct {
	Length int
	Max    int
}

func (e TitleTooLongError) Error() string {
	return fmt.Sprintf("transaction title is %d characters long, maximum is %d", e.Length, e.Max)
}

type TransactionService interface {
	ListByMonth(ctx context.Context, monthID string) ([]Transaction, error)
	ListByEntry(ctx context.Context, entryID string, limit, offset int) ([]Transaction, error)
	Create(ctx context.Context, entryID string, amount budget.Money, date budget.TransactionDate, title *string) (Transaction, error)
	Update(ctx context.Context, id string, update TransactionUpdate) (Transaction, error)
	Delete(ctx context.Context, id string) error
}

type TransactionServiceImpl struct {
	repo    TransactionRepo
	entries entry.EntryRepo
}

func NewTransactionService(repo TransactionRepo, entries entry.EntryRepo) *TransactionServiceImpl {
	return &TransactionServiceImpl{repo: repo, entries: entries}
}

func (s *TransactionServiceImpl) ListByMonth(ctx context.Context, monthID string) ([]Transaction, error) {
	return s.repo.ListByMonth(ctx, monthID)
}

func (s *TransactionServiceImpl) ListByEntry(ctx context.Context, entryID string, limit, offset int) ([]Transaction, error) {
	return s.repo.ListByEntry(ctx, entryID, limit, offset)
}

func (s *TransactionServiceImpl) Create(ctx context.Context, entryID string, amount budget.Money, date budget.TransactionDate, title *string) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, InvalidAmountError{Value: amount.Value()}
	}
	normalized, err := normalizeTitle(title)
	if err != nil {
		return Transaction{}, err
	}
	if err := s.requireEntry(ctx, entryID); err != nil {
		return Transaction{}, err
	}

	return s.repo.Create(ctx, NewTransaction{
		EntryID: entryID,
		Amount:  amount,
		Date:    date,
		Title:   normalized,
	})
}

func (s *TransactionServiceImpl) Update(ctx context.Context, id string, update TransactionUpdate) (Transaction, error) {
	if update.Amount != nil && update.Amount.IsNegative() {
		return Transaction{}, InvalidAmountError{Value: update.Amount.Value()}
	}
	if value, ok := update.Title.Value(); ok {
		normalized, err := normalizeTitle(&value)
		if err != nil {
			return Transaction{}, err
		}
		if normalized == nil {
			update.Title = patch.Clear[string]()
		} else {
			update.Title = patch.Set(*normalized)
		}
	}
	if update.EntryID != nil {
		if err := s.requireEntry(ctx, *update.EntryID); err != nil {
			return Transaction{}, err
		}
	}

	return s.repo.Update(ctx, id, update)
}

func (s *TransactionServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TransactionServiceImpl) requireEntry(ctx context.Context, entryID string) error {
	existing, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if existing == nil {
		return entry.ErrEntryNotFound
	}
	return nil
}

// normalizeTitle trims surrounding whitespace and drops titles that end up
// empty. Length is checked in runes after trimming.
func normalizeTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil, nil
	}
	if length := utf8.RuneCountInString(trimmed); length > MaxTitleLength {
		return nil, TitleTooLongError{Length: length, Max: MaxTitleLength}
	}
	return &trimmed, nil
}
