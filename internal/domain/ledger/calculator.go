package ledger

import (
	"bytes"
	"sort"
	"time"

	"stockledger/internal/core/types"
)

// The calculator is the pure half of the ledger: given a sequence of
// movements it derives balances and display orderings. It never touches
// storage, so every function here is deterministic for a given input.

// chronoLess orders movements by (occurred_at, id). UUIDv7 ids are
// time-ordered, so the id tiebreak reproduces insertion order for movements
// sharing a business timestamp.
func chronoLess(a, b Movement) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.Before(b.OccurredAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// SortChronological sorts movements ascending by (occurred_at, id) in place.
func SortChronological(movements []Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return chronoLess(movements[i], movements[j])
	})
}

// ComputeBalance folds signed quantities over the movements.
// Fold order is normalized first so the result does not depend on the
// order movements were queried in.
func ComputeBalance(movements []Movement) types.Quantity {
	ordered := make([]Movement, len(movements))
	copy(ordered, movements)
	SortChronological(ordered)

	var balance types.Quantity
	for _, m := range ordered {
		balance += m.SignedQuantity()
	}
	return balance
}

// ComputeBalanceAsOf folds only movements with occurred_at <= asOf.
func ComputeBalanceAsOf(movements []Movement, asOf time.Time) types.Quantity {
	var inRange []Movement
	for _, m := range movements {
		if !m.OccurredAt.After(asOf) {
			inRange = append(inRange, m)
		}
	}
	return ComputeBalance(inRange)
}

// HistoryFilter restricts movement history to a calendar month and/or year.
// A month without a year matches that month across all years; a year without
// a month matches the whole year. Nil means no restriction.
type HistoryFilter struct {
	Month *time.Month
	Year  *int
}

// Matches reports whether t satisfies the filter.
func (f HistoryFilter) Matches(t time.Time) bool {
	if f.Month != nil && t.Month() != *f.Month {
		return false
	}
	if f.Year != nil && t.Year() != *f.Year {
		return false
	}
	return true
}

// FilterHistory returns movements matching the filter, sorted descending by
// (occurred_at, id). Latest-first is a presentation contract for history
// views, not a ledger invariant.
func FilterHistory(movements []Movement, filter HistoryFilter) []Movement {
	result := make([]Movement, 0, len(movements))
	for _, m := range movements {
		if filter.Matches(m.OccurredAt) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return chronoLess(result[j], result[i])
	})
	return result
}

// SortLatestFirst sorts movements descending by (occurred_at, id) in place.
func SortLatestFirst(movements []Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return chronoLess(movements[j], movements[i])
	})
}
