package queries

import (
	"errors"
	"strings"
	"time"

	"heblo/internal/core/application/catalog"
	"heblo/internal/pkg/guard"
)

var (
	ErrGetCatalogQueryIsNotConstructed = errors.New(
		"GetCatalogQuery must be created via NewGetCatalogQuery constructor",
	)
)

// GetCatalogQuery reads the merged catalog, or a single product of it when a
// product code is given.
type GetCatalogQuery struct {
	productCode string
	guard       guard.ConstructorGuard
}

func NewGetCatalogQuery(productCode string) GetCatalogQuery {
	return GetCatalogQuery{productCode: strings.TrimSpace(productCode), guard: guard.NewConstructorGuard()}
}

func (q GetCatalogQuery) Validate() error {
	return q.guard.Validate(ErrGetCatalogQueryIsNotConstructed)
}

func (q GetCatalogQuery) ProductCode() string {
	return q.productCode
}

type GetCatalogQueryResponse struct {
	Items    []catalog.Item
	MergedAt time.Time
}
