package domain

import "github.com/google/btree"

// dryDayPool is the ascending set of dry days not yet spent on a lake.
type dryDayPool struct {
	tree *btree.BTreeG[int]
}

func newDryDayPool() *dryDayPool {
	return &dryDayPool{tree: btree.NewOrderedG[int](32)}
}

func (p *dryDayPool) Add(day int) {
	p.tree.ReplaceOrInsert(day)
}

// TakeAfter removes and returns the smallest pooled day strictly greater than after.
func (p *dryDayPool) TakeAfter(after int) (int, bool) {
	var (
		day   int
		found bool
	)
	p.tree.AscendGreaterOrEqual(after+1, func(d int) bool {
		day, found = d, true
		return false
	})
	if !found {
		return 0, false
	}
	p.tree.Delete(day)
	return day, true
}

// Days returns the pooled days in ascending order.
func (p *dryDayPool) Days() []int {
	days := make([]int, 0, p.tree.Len())
	p.tree.Ascend(func(d int) bool {
		days = append(days, d)
		return true
	})
	return days
}

func (p *dryDayPool) Len() int {
	return p.tree.Len()
}
