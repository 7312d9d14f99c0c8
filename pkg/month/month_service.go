package month

import (
	"context"
	"fmt"

	"github.com/koperta/koperta/pkg/budget"
	log "github.com/sirupsen/logrus"
)

// EntryCopier duplicates every budget entry of one month into another month,
// reusing category, budgeted amount and due day under fresh ids. Implemented
// by the budget entry repository.
type EntryCopier interface {
	CopyEntries(ctx context.Context, fromMonthID, toMonthID string) (int, error)
}

type MonthService interface {
	ListAll(ctx context.Context) ([]Month, error)
	FindByID(ctx context.Context, id string) (Month, error)
	// Create creates the month record and, unless empty is true, copies the
	// budget entries of a source month into it: the month with id copyFrom
	// when given, otherwise the latest existing month. With no source month
	// the new month starts without entries.
	Create(ctx context.Context, m budget.BudgetMonth, copyFrom string, empty bool) (Month, error)
}

type MonthServiceImpl struct {
	repo    MonthRepo
	entries EntryCopier
}

func NewMonthService(repo MonthRepo, entries EntryCopier) *MonthServiceImpl {
	return &MonthServiceImpl{repo: repo, entries: entries}
}

func (s *MonthServiceImpl) ListAll(ctx context.Context) ([]Month, error) {
	return s.repo.ListAll(ctx)
}

func (s *MonthServiceImpl) FindByID(ctx context.Context, id string) (Month, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Month{}, err
	}
	if m == nil {
		return Month{}, ErrMonthNotFound
	}
	return *m, nil
}

func (s *MonthServiceImpl) Create(ctx context.Context, m budget.BudgetMonth, copyFrom string, empty bool) (Month, error) {
	created, err := s.repo.Create(ctx, NewMonth{Month: m})
	if err != nil {
		return Month{}, err
	}

	if empty {
		return created, nil
	}

	sourceID := ""
	if copyFrom != "" {
		source, err := s.repo.FindByID(ctx, copyFrom)
		if err != nil {
			return Month{}, err
		}
		if source == nil {
			return Month{}, ErrMonthNotFound
		}
		sourceID = source.ID
	} else {
		latest, err := s.repo.FindLatestExcluding(ctx, created.ID)
		if err != nil {
			return Month{}, err
		}
		if latest != nil {
			sourceID = latest.ID
		}
	}

	if sourceID != "" {
		copied, err := s.entries.CopyEntries(ctx, sourceID, created.ID)
		if err != nil {
			// The month record itself is not rolled back here; the copy is
			// atomic only as far as the repository implementation makes it.
			return Month{}, fmt.Errorf("failed to copy entries from month %s: %w", sourceID, err)
		}
		log.Debugf("copied %d entries from month %s to %s", copied, sourceID, created.ID)
	}

	return created, nil
}
