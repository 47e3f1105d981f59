package engine

import (
	"context"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

// Stats is the dashboard aggregate: per-status counts zero-filled across
// every lifecycle state, plus the category rollups derived from them.
type Stats struct {
	TotalContracts  int64                     `json:"totalContracts"`
	TotalBlueprints int64                     `json:"totalBlueprints"`
	ByStatus        map[domain.Status]int64   `json:"byStatus"`
	ByCategory      map[domain.Category]int64 `json:"byCategory"`
}

func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	byStatus, err := e.store.CountContractsByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	blueprintCount, err := e.store.CountBlueprints(ctx)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		TotalBlueprints: blueprintCount,
		ByStatus:        map[domain.Status]int64{},
		ByCategory:      map[domain.Category]int64{},
	}
	for _, status := range domain.AllStatuses {
		n := byStatus[status]
		s.ByStatus[status] = n
		s.TotalContracts += n
	}
	for category, statuses := range domain.CategoryStatuses {
		var n int64
		for _, status := range statuses {
			n += s.ByStatus[status]
		}
		s.ByCategory[category] = n
	}
	return s, nil
}
