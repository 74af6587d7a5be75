package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNegativeAmount = errors.New("resource amounts must be non-negative")
	ErrTotalTooLarge  = errors.New("resource total is too large")
)

// ResourceAmounts are the warehouse totals entered on the resource page.
type ResourceAmounts struct {
	Cash     int64 `json:"cash"`
	Cargo    int64 `json:"cargo"`
	Arms     int64 `json:"arms"`
	Metal    int64 `json:"metal"`
	Diamonds int64 `json:"diamonds"`
}

type ResourceShare struct {
	Name    string  `json:"name"`
	Amount  int64   `json:"amount"`
	Percent float64 `json:"percent"`
}

type ResourceSummary struct {
	Total   int64           `json:"total"`
	Shares  []ResourceShare `json:"shares"`
	Largest string          `json:"largest,omitempty"`
}

// Resources reports the total, each resource's share of it and the largest
// resource. Ties keep the first resource in display order.
func Resources(in ResourceAmounts) (ResourceSummary, error) {
	rows := []ResourceShare{
		{Name: "Cash", Amount: in.Cash},
		{Name: "Cargo", Amount: in.Cargo},
		{Name: "Arms", Amount: in.Arms},
		{Name: "Metal", Amount: in.Metal},
		{Name: "Diamonds", Amount: in.Diamonds},
	}

	var out ResourceSummary
	var largest int64
	for _, r := range rows {
		if r.Amount < 0 {
			return ResourceSummary{}, fmt.Errorf("%s: %w", r.Name, ErrNegativeAmount)
		}
		if r.Amount > math.MaxInt64-out.Total {
			return ResourceSummary{}, ErrTotalTooLarge
		}
		out.Total += r.Amount
		if r.Amount > largest {
			largest = r.Amount
			out.Largest = r.Name
		}
	}

	for i := range rows {
		if out.Total > 0 {
			rows[i].Percent = Round3(float64(rows[i].Amount) * 100 / float64(out.Total))
		}
	}
	out.Shares = rows
	return out, nil
}
