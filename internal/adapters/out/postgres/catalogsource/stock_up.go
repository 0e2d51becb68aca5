package catalogsource

import (
	"context"

	"heblo/internal/core/application/catalog"
	"heblo/internal/core/ports"

	"gorm.io/gorm"
)

const stockUpQuery = `
	SELECT product_code, MAX(product_name) AS product_name, SUM(amount) AS amount
	FROM stock_up_operations
	GROUP BY product_code
	ORDER BY product_code`

// NewStockUpSource reports the total amount stocked up from received boxes.
func NewStockUpSource(db *gorm.DB) catalog.Source {
	return &querySource{name: ports.SourceStockUp, db: db, load: loadStockUp}
}

func loadStockUp(_ context.Context, db *gorm.DB) ([]catalog.Row, error) {
	var amounts []productAmount
	if err := db.Raw(stockUpQuery).Scan(&amounts).Error; err != nil {
		return nil, err
	}

	rows := make([]catalog.Row, 0, len(amounts))
	for _, a := range amounts {
		rows = append(rows, catalog.Row{
			ProductCode: a.ProductCode,
			ProductName: a.ProductName,
			Bucket:      catalog.BucketStockedFromBoxes,
			Amount:      a.Amount,
		})
	}
	return rows, nil
}
