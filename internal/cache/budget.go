package cache

import (
	"time"

	"budgetbook/internal/core"
)

// BudgetCache holds recently read budgets keyed by month. Writers must
// invalidate the months they touch; the TTL is only a backstop.
type BudgetCache struct {
	lru *LRUCache[core.Budget]
}

// NewBudgetCache creates a budget cache sized for a few years of months.
func NewBudgetCache() *BudgetCache {
	return &BudgetCache{lru: NewLRUCache[core.Budget](120, 5*time.Minute)}
}

// Get returns the cached budget for a month, if present and fresh.
func (c *BudgetCache) Get(month core.Month) (core.Budget, bool) {
	return c.lru.Get(month.String())
}

// Set stores a budget under its month.
func (c *BudgetCache) Set(b core.Budget) {
	c.lru.Set(b.Month.String(), b)
}

// Invalidate drops the month's entry.
func (c *BudgetCache) Invalidate(month core.Month) {
	c.lru.Delete(month.String())
}
