package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Bucket tells which catalog column a source row contributes to.
type Bucket int

const (
	BucketOpenedBoxes Bucket = iota + 1
	BucketInTransit
	BucketInReserve
	BucketStockedFromBoxes
)

// Row is one product quantity reported by a source.
type Row struct {
	ProductCode string
	ProductName string
	Bucket      Bucket
	Amount      decimal.Decimal
}

// Source is a named catalog data source holding its last loaded rows.
type Source interface {
	Name() string
	Refresh(ctx context.Context) error
	Rows() []Row
}

// Item is the merged view of one product.
type Item struct {
	ProductCode      string          `json:"productCode"`
	ProductName      string          `json:"productName"`
	InOpenedBoxes    decimal.Decimal `json:"inOpenedBoxes"`
	InTransit        decimal.Decimal `json:"inTransit"`
	InReserve        decimal.Decimal `json:"inReserve"`
	StockedFromBoxes decimal.Decimal `json:"stockedFromBoxes"`
}

// Catalog is an immutable merged snapshot.
type Catalog struct {
	items    map[string]Item
	mergedAt time.Time
}

// Items returns all products ordered by product code.
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b Item) int { return strings.Compare(a.ProductCode, b.ProductCode) })
	return items
}

// Get returns the merged view of one product. Lookup is case-insensitive.
func (c *Catalog) Get(productCode string) (Item, bool) {
	item, ok := c.items[normalizeCode(productCode)]
	return item, ok
}

func (c *Catalog) MergedAt() time.Time {
	return c.mergedAt
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Merger combines the rows of all sources into a Catalog. Merge is the callback
// registered with the MergeScheduler.
type Merger struct {
	sources  []Source
	logger   *slog.Logger
	snapshot atomic.Pointer[Catalog]
}

func NewMerger(logger *slog.Logger, sources ...Source) *Merger {
	m := &Merger{
		sources: sources,
		logger:  logger.With("component", "CatalogMerger"),
	}
	m.snapshot.Store(&Catalog{items: map[string]Item{}})
	return m
}

// Snapshot returns the last merged catalog. Before the first merge it is empty.
func (m *Merger) Snapshot() *Catalog {
	return m.snapshot.Load()
}

// Merge builds a new snapshot and swaps it in atomically.
func (m *Merger) Merge(ctx context.Context) error {
	items := make(map[string]Item)

	for _, source := range m.sources {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("merge cancelled: %w", err)
		}

		for _, row := range source.Rows() {
			key := normalizeCode(row.ProductCode)
			if key == "" {
				continue
			}

			item, ok := items[key]
			if !ok {
				item = Item{ProductCode: key}
			}
			if item.ProductName == "" {
				item.ProductName = row.ProductName
			}

			switch row.Bucket {
			case BucketOpenedBoxes:
				item.InOpenedBoxes = item.InOpenedBoxes.Add(row.Amount)
			case BucketInTransit:
				item.InTransit = item.InTransit.Add(row.Amount)
			case BucketInReserve:
				item.InReserve = item.InReserve.Add(row.Amount)
			case BucketStockedFromBoxes:
				item.StockedFromBoxes = item.StockedFromBoxes.Add(row.Amount)
			default:
				return fmt.Errorf("source %s returned unknown bucket %d", source.Name(), row.Bucket)
			}

			items[key] = item
		}
	}

	m.snapshot.Store(&Catalog{items: items, mergedAt: time.Now()})
	m.logger.DebugContext(ctx, "catalog snapshot replaced", "products", len(items))
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
