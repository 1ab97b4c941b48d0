package loans

// Line is one item/quantity pair of a loan, seen by the ledger.
type Line struct {
	ItemID   string
	Quantity int
}

// Diff is the set of ledger operations needed to move a reservation from one
// item list to another. A quantity change shows up as a release of the old
// quantity plus a reserve of the new one.
type Diff struct {
	Releases []Line
	Reserves []Line
}

// Reconcile diffs the currently reserved lines against the requested ones.
// Lines only in current are released, lines only in next are reserved,
// unchanged lines produce no ledger operation. Order follows the input lists.
func Reconcile(current, next []Line) Diff {
	currentQty := make(map[string]int, len(current))
	for _, l := range current {
		currentQty[l.ItemID] += l.Quantity
	}
	nextQty := make(map[string]int, len(next))
	for _, l := range next {
		nextQty[l.ItemID] += l.Quantity
	}

	var d Diff
	seen := make(map[string]bool, len(current))
	for _, l := range current {
		if seen[l.ItemID] {
			continue // duplicate lines already summed above
		}
		seen[l.ItemID] = true
		if q, ok := nextQty[l.ItemID]; !ok || q != currentQty[l.ItemID] {
			d.Releases = append(d.Releases, Line{ItemID: l.ItemID, Quantity: currentQty[l.ItemID]})
		}
	}
	seen = make(map[string]bool, len(next))
	for _, l := range next {
		if seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		if q, ok := currentQty[l.ItemID]; !ok || q != nextQty[l.ItemID] {
			d.Reserves = append(d.Reserves, Line{ItemID: l.ItemID, Quantity: nextQty[l.ItemID]})
		}
	}
	return d
}
