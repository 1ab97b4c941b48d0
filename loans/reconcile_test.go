package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	a := Line{ItemID: "item-a", Quantity: 2}

	tests := []struct {
		name          string
		current, next []Line
		wantReleases  []Line
		wantReserves  []Line
	}{
		{
			name:    "quantity change plus new item",
			current: []Line{a},
			next:    []Line{{ItemID: "item-a", Quantity: 1}, {ItemID: "item-b", Quantity: 3}},
			wantReleases: []Line{
				{ItemID: "item-a", Quantity: 2},
			},
			wantReserves: []Line{
				{ItemID: "item-a", Quantity: 1},
				{ItemID: "item-b", Quantity: 3},
			},
		},
		{
			name:    "unchanged list produces no operations",
			current: []Line{a, {ItemID: "item-b", Quantity: 1}},
			next:    []Line{a, {ItemID: "item-b", Quantity: 1}},
		},
		{
			name:         "removed item is released",
			current:      []Line{a, {ItemID: "item-b", Quantity: 1}},
			next:         []Line{a},
			wantReleases: []Line{{ItemID: "item-b", Quantity: 1}},
		},
		{
			name:         "added item is reserved",
			current:      []Line{a},
			next:         []Line{a, {ItemID: "item-c", Quantity: 4}},
			wantReserves: []Line{{ItemID: "item-c", Quantity: 4}},
		},
		{
			name:         "empty current reserves everything",
			next:         []Line{a},
			wantReserves: []Line{a},
		},
		{
			name:         "empty next releases everything",
			current:      []Line{a},
			wantReleases: []Line{a},
		},
		{
			name:         "duplicate lines are summed",
			current:      []Line{{ItemID: "item-a", Quantity: 1}, {ItemID: "item-a", Quantity: 1}},
			next:         []Line{{ItemID: "item-a", Quantity: 3}},
			wantReleases: []Line{{ItemID: "item-a", Quantity: 2}},
			wantReserves: []Line{{ItemID: "item-a", Quantity: 3}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Reconcile(tc.current, tc.next)
			assert.Equal(t, tc.wantReleases, d.Releases)
			assert.Equal(t, tc.wantReserves, d.Reserves)
		})
	}
}
