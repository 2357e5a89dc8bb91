package ledger

import (
	"testing"
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

func qty(s string) types.Quantity {
	q, err := types.NewQuantityFromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

func mv(t time.Time, direction Direction, quantity string) Movement {
	return Movement{
		ID:         id.New(),
		ProductID:  id.MustParse("5f9c0d7e-0000-0000-0000-000000000001"),
		Quantity:   qty(quantity),
		Direction:  direction,
		Source:     SourceManual,
		OccurredAt: t,
	}
}

func TestComputeBalance(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		movements []Movement
		want      string
	}{
		{
			name:      "empty ledger is zero",
			movements: nil,
			want:      "0.0000",
		},
		{
			name: "in only",
			movements: []Movement{
				mv(base, DirectionIn, "100.0000"),
				mv(base.Add(time.Hour), DirectionIn, "2.5000"),
			},
			want: "102.5000",
		},
		{
			name: "in and out",
			movements: []Movement{
				mv(base, DirectionIn, "100.0000"),
				mv(base.Add(time.Hour), DirectionOut, "30.0000"),
				mv(base.Add(2*time.Hour), DirectionOut, "70.0000"),
			},
			want: "0.0000",
		},
		{
			name: "fractional quantities",
			movements: []Movement{
				mv(base, DirectionIn, "0.1000"),
				mv(base, DirectionIn, "0.2000"),
				mv(base, DirectionOut, "0.0500"),
			},
			want: "0.2500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalance(tt.movements)
			if got.String() != tt.want {
				t.Errorf("ComputeBalance() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestComputeBalance_OrderIndependent(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	movements := []Movement{
		mv(base.Add(2*time.Hour), DirectionOut, "30.0000"),
		mv(base, DirectionIn, "100.0000"),
		mv(base.Add(time.Hour), DirectionIn, "50.0000"),
		mv(base.Add(3*time.Hour), DirectionOut, "20.0000"),
	}

	want := ComputeBalance(movements)

	// Same movements in reversed query order must fold to the same balance.
	reversed := make([]Movement, 0, len(movements))
	for i := len(movements) - 1; i >= 0; i-- {
		reversed = append(reversed, movements[i])
	}
	if got := ComputeBalance(reversed); got != want {
		t.Errorf("balance depends on input order: %s vs %s", got.String(), want.String())
	}
}

func TestComputeBalanceAsOf(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	movements := []Movement{
		mv(base, DirectionIn, "100.0000"),
		mv(base.Add(time.Hour), DirectionOut, "30.0000"),
		mv(base.Add(2*time.Hour), DirectionIn, "10.0000"),
	}

	tests := []struct {
		name string
		asOf time.Time
		want string
	}{
		{"before first movement", base.Add(-time.Minute), "0.0000"},
		{"exactly at first movement", base, "100.0000"},
		{"between movements", base.Add(90 * time.Minute), "70.0000"},
		{"after all movements", base.Add(3 * time.Hour), "80.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalanceAsOf(movements, tt.asOf)
			if got.String() != tt.want {
				t.Errorf("ComputeBalanceAsOf(%s) = %s, want %s", tt.asOf, got.String(), tt.want)
			}
		})
	}
}

func TestSortChronological_IDTiebreak(t *testing.T) {
	ts := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	// UUIDv7 ids generated in sequence sort in generation order, which is
	// the tiebreak for movements sharing a business timestamp.
	first := mv(ts, DirectionIn, "1.0000")
	second := mv(ts, DirectionIn, "2.0000")

	movements := []Movement{second, first}
	SortChronological(movements)

	if movements[0].ID != first.ID {
		t.Errorf("expected earlier-generated id first, got %s", movements[0].ID)
	}
}

func TestHistoryFilter(t *testing.T) {
	march := time.March
	year2024 := 2024
	year2025 := 2025

	march2024 := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	march2025 := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	april2025 := time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC)

	movements := []Movement{
		mv(march2024, DirectionIn, "1.0000"),
		mv(march2025, DirectionIn, "2.0000"),
		mv(april2025, DirectionIn, "3.0000"),
	}

	tests := []struct {
		name   string
		filter HistoryFilter
		want   int
	}{
		{"no filter matches all", HistoryFilter{}, 3},
		{"month only matches across years", HistoryFilter{Month: &march}, 2},
		{"year only matches whole year", HistoryFilter{Year: &year2025}, 2},
		{"month and year", HistoryFilter{Month: &march, Year: &year2024}, 1},
		{"no match", HistoryFilter{Month: &march, Year: new(int)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterHistory(movements, tt.filter)
			if len(got) != tt.want {
				t.Errorf("FilterHistory() returned %d movements, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilterHistory_LatestFirst(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	movements := []Movement{
		mv(base, DirectionIn, "1.0000"),
		mv(base.Add(2*time.Hour), DirectionIn, "3.0000"),
		mv(base.Add(time.Hour), DirectionIn, "2.0000"),
	}

	got := FilterHistory(movements, HistoryFilter{})
	if len(got) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].OccurredAt.After(got[i-1].OccurredAt) {
			t.Errorf("history not latest-first at index %d", i)
		}
	}
}

func TestTimeRangeContains(t *testing.T) {
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	r := TimeRange{From: &from, To: &to}

	if !r.Contains(from) || !r.Contains(to) {
		t.Error("bounds must be inclusive")
	}
	if r.Contains(from.Add(-time.Second)) {
		t.Error("time before From must not match")
	}
	if r.Contains(to.Add(time.Second)) {
		t.Error("time after To must not match")
	}
	if !(TimeRange{}).Contains(from) {
		t.Error("unbounded range must match everything")
	}
}
