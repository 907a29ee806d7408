package memory

import (
	"context"
	"sort"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

func (s *Store) CreateInvestment(ctx context.Context, investment *domain.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *investment
	s.investments[cp.ID] = &cp
	return nil
}

func (s *Store) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.investments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *Store) UpdateInvestment(ctx context.Context, id string, update domain.InvestmentUpdate) (*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.investments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	inv.ApplyUpdate(update)
	inv.UpdatedAt = s.now()
	cp := *inv
	return &cp, nil
}

func (s *Store) ListInvestments(ctx context.Context, filter domain.InvestmentFilter) ([]*domain.Investment, int64, error) {
	matched, err := s.matchInvestments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return page(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (s *Store) AggregateInvestments(ctx context.Context, owner string) (domain.InvestmentTotals, error) {
	matched, err := s.matchInvestments(ctx, domain.InvestmentFilter{OwnerAddress: owner})
	if err != nil {
		return domain.InvestmentTotals{}, err
	}
	return domain.AggregateInvestments(matched), nil
}

func (s *Store) AggregateInvestmentsByType(ctx context.Context, owner string) ([]domain.InvestmentTypeBreakdown, error) {
	matched, err := s.matchInvestments(ctx, domain.InvestmentFilter{OwnerAddress: owner})
	if err != nil {
		return nil, err
	}
	return domain.BreakdownByType(matched), nil
}

// matchInvestments returns copies of the filtered records, newest investment first.
func (s *Store) matchInvestments(ctx context.Context, filter domain.InvestmentFilter) ([]*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*domain.Investment, 0)
	for _, inv := range s.investments {
		if filter.OwnerAddress != "" && inv.OwnerAddress != filter.OwnerAddress {
			continue
		}
		if filter.Type != "" && inv.Type != filter.Type {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].InvestmentDate.Equal(out[j].InvestmentDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].InvestmentDate.After(out[j].InvestmentDate)
	})
	return out, nil
}

func (s *Store) RecordInconsistency(ctx context.Context, event *domain.InconsistencyEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	s.inconsistency[cp.ID] = &cp
	s.inconsistOrder = append(s.inconsistOrder, cp.ID)
	return nil
}

func (s *Store) ListOpenInconsistencies(ctx context.Context, kind domain.ErrorKind, limit int) ([]*domain.InconsistencyEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.InconsistencyEvent
	for _, id := range s.inconsistOrder {
		e := s.inconsistency[id]
		if e.Resolved || (kind != "" && e.Kind != kind) {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkInconsistencyResolved(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.inconsistency[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Resolved = true
	e.ResolvedAt = &at
	return nil
}

func (s *Store) IncrementInconsistencyAttempts(ctx context.Context, id string, lastError string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.inconsistency[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Attempts++
	e.Error = lastError
	return nil
}
