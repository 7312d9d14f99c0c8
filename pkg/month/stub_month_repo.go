package month

import (
	"context"
	"sort"
	"time"

	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/oklog/ulid/v2"
)

// StubMonthRepo is an in-memory MonthRepo for tests.
type StubMonthRepo struct {
	Clock  utils.Clock
	months map[string]Month
}

func NewStubMonthRepo() *StubMonthRepo {
	return &StubMonthRepo{Clock: utils.SystemClock{}, months: map[string]Month{}}
}

func (s *StubMonthRepo) Cleanup() {
	s.months = map[string]Month{}
}

func (s *StubMonthRepo) ListAll(ctx context.Context) ([]Month, error) {
	months := make([]Month, 0, len(s.months))
	for _, m := range s.months {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[j].Month.Before(months[i].Month)
	})
	return months, nil
}

func (s *StubMonthRepo) FindByID(ctx context.Context, id string) (*Month, error) {
	m, ok := s.months[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *StubMonthRepo) FindByMonth(ctx context.Context, target budget.BudgetMonth) (*Month, error) {
	for _, m := range s.months {
		if m.Month.Compare(target) == 0 {
			return &m, nil
		}
	}
	return nil, nil
}

func (s *StubMonthRepo) Create(ctx context.Context, m NewMonth) (Month, error) {
	for _, existing := range s.months {
		if existing.Month.Compare(m.Month) == 0 {
			return Month{}, AlreadyExistsError{Month: m.Month.String()}
		}
	}
	now := s.Clock.Now().UTC().Truncate(time.Millisecond)
	created := Month{
		ID:        ulid.Make().String(),
		Month:     m.Month,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.months[created.ID] = created
	return created, nil
}

func (s *StubMonthRepo) FindLatest(ctx context.Context) (*Month, error) {
	return s.FindLatestExcluding(ctx, "")
}

func (s *StubMonthRepo) FindLatestExcluding(ctx context.Context, excludeID string) (*Month, error) {
	var latest *Month
	for id := range s.months {
		if id == excludeID {
			continue
		}
		m := s.months[id]
		if latest == nil || latest.Month.Before(m.Month) {
			latest = &m
		}
	}
	return latest, nil
}
