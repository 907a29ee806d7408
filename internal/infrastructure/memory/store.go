// Package memory keeps the referral ledger in process memory. It honours the
// same atomicity contract as the postgres repositories and backs the memory
// storage driver and the tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

var (
	_ domain.ParticipantRepository   = (*Store)(nil)
	_ domain.ReferralRepository      = (*Store)(nil)
	_ domain.InvestmentRepository    = (*Store)(nil)
	_ domain.InconsistencyRepository = (*Store)(nil)
)

type edgeKey struct {
	referred string
	level    int
}

type pairKey struct {
	referrer string
	referred string
}

type Store struct {
	mu sync.RWMutex

	participants   map[string]*domain.Participant
	edges          []*domain.ReferralEdge
	edgesByLevel   map[edgeKey]*domain.ReferralEdge
	edgesByPair    map[pairKey]*domain.ReferralEdge
	investments    map[string]*domain.Investment
	inconsistency  map[string]*domain.InconsistencyEvent
	inconsistOrder []string

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		participants:  make(map[string]*domain.Participant),
		edgesByLevel:  make(map[edgeKey]*domain.ReferralEdge),
		edgesByPair:   make(map[pairKey]*domain.ReferralEdge),
		investments:   make(map[string]*domain.Investment),
		inconsistency: make(map[string]*domain.InconsistencyEvent),
		now:           time.Now,
	}
}

func (s *Store) RegisterParticipant(ctx context.Context, participant *domain.Participant, firstEdge *domain.ReferralEdge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[participant.Address]; ok {
		return domain.ErrDuplicateParticipant
	}
	if firstEdge != nil {
		if _, ok := s.participants[firstEdge.ReferrerAddress]; !ok {
			return domain.ErrUnknownSponsor
		}
	}

	p := *participant
	s.participants[p.Address] = &p
	if firstEdge != nil {
		s.creditLocked(firstEdge)
	}
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, address string) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) IncrementParticipantTotals(ctx context.Context, address string, delta domain.ParticipantTotalsDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[address]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalInvestment += delta.Investment
	p.TotalEarnings += delta.Earnings
	p.UpdatedAt = s.now()
	return nil
}

func (s *Store) ListParticipants(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	all := make([]*domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		cp := *p
		all = append(all, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].RegistrationDate.Equal(all[j].RegistrationDate) {
			return all[i].Address < all[j].Address
		}
		return all[i].RegistrationDate.After(all[j].RegistrationDate)
	})
	return page(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (s *Store) TopReferrers(ctx context.Context, limit int) ([]*domain.Participant, error) {
	all, _, err := s.ListParticipants(ctx, domain.ParticipantFilter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TotalReferrals == all[j].TotalReferrals {
			return all[i].RegistrationDate.Before(all[j].RegistrationDate)
		}
		return all[i].TotalReferrals > all[j].TotalReferrals
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) CreditAncestor(ctx context.Context, edge *domain.ReferralEdge) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !domain.ValidLevel(edge.Level) {
		return false, domain.NewValidationError("level", "outside [1,10]")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.edgesByLevel[edgeKey{edge.ReferredAddress, edge.Level}]; ok {
		if existing.ReferrerAddress == edge.ReferrerAddress {
			return false, nil
		}
		return false, domain.ErrEdgeConflict
	}
	if _, ok := s.edgesByPair[pairKey{edge.ReferrerAddress, edge.ReferredAddress}]; ok {
		return false, domain.ErrEdgeConflict
	}
	if _, ok := s.participants[edge.ReferrerAddress]; !ok {
		return false, domain.ErrNotFound
	}
	s.creditLocked(edge)
	return true, nil
}

// creditLocked inserts the edge and bumps the referrer's counters. The caller
// holds mu and has checked that the referrer exists.
func (s *Store) creditLocked(edge *domain.ReferralEdge) {
	e := *edge
	s.edges = append(s.edges, &e)
	s.edgesByLevel[edgeKey{e.ReferredAddress, e.Level}] = &e
	s.edgesByPair[pairKey{e.ReferrerAddress, e.ReferredAddress}] = &e

	referrer := s.participants[e.ReferrerAddress]
	referrer.LevelCounts[e.Level-1]++
	referrer.TotalReferrals++
	referrer.UpdatedAt = s.now()
}

func (s *Store) GetEdge(ctx context.Context, referrer, referred string) (*domain.ReferralEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.edgesByPair[pairKey{referrer, referred}]
	if !ok {
		return nil, domain.ErrEdgeNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) AddCommission(ctx context.Context, referrer, referred string, amount float64) (*domain.ReferralEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edgesByPair[pairKey{referrer, referred}]
	if !ok {
		return nil, domain.ErrEdgeNotFound
	}
	e.CommissionEarned += amount
	e.UpdatedAt = s.now()
	cp := *e
	return &cp, nil
}

func (s *Store) ListEdges(ctx context.Context, filter domain.ReferralFilter) ([]*domain.ReferralEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	var out []*domain.ReferralEdge
	for _, e := range s.edges {
		if filter.ReferrerAddress != "" && e.ReferrerAddress != filter.ReferrerAddress {
			continue
		}
		if filter.ReferredAddress != "" && e.ReferredAddress != filter.ReferredAddress {
			continue
		}
		if filter.Level != 0 && e.Level != filter.Level {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	// edges are appended in insertion order, newest last
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationDate.After(out[j].RegistrationDate)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) CountEdgesByLevel(ctx context.Context, referrer string) ([domain.MaxReferralLevels]int64, error) {
	var counts [domain.MaxReferralLevels]int64
	if err := ctx.Err(); err != nil {
		return counts, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.edges {
		if e.ReferrerAddress == referrer && domain.ValidLevel(e.Level) {
			counts[e.Level-1]++
		}
	}
	return counts, nil
}

func (s *Store) SumCommission(ctx context.Context, referrer string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.edges {
		if e.ReferrerAddress == referrer {
			total += e.CommissionEarned
		}
	}
	return total, nil
}

func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := 0
	if pageNum > 1 {
		start = (pageNum - 1) * limit
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
