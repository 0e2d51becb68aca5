package catalogsource

import (
	"context"

	"heblo/internal/core/application/catalog"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/core/ports"

	"gorm.io/gorm"
)

const transportBoxesQuery = `
	SELECT i.product_code, MAX(i.product_name) AS product_name, b.state, SUM(i.amount) AS amount
	FROM transport_box_items i
	JOIN transport_boxes b ON b.id = i.box_id
	WHERE b.state IN ?
	GROUP BY i.product_code, b.state
	ORDER BY i.product_code, b.state`

var stateBuckets = map[string]catalog.Bucket{
	transportbox.Opened.String():    catalog.BucketOpenedBoxes,
	transportbox.InTransit.String(): catalog.BucketInTransit,
	transportbox.Reserve.String():   catalog.BucketInReserve,
}

// NewTransportBoxSource reports the amounts packed in boxes that are still on
// their way: opened, in transit or held in reserve.
func NewTransportBoxSource(db *gorm.DB) catalog.Source {
	return &querySource{name: ports.SourceTransportBoxes, db: db, load: loadTransportBoxes}
}

func loadTransportBoxes(_ context.Context, db *gorm.DB) ([]catalog.Row, error) {
	states := make([]string, 0, len(stateBuckets))
	for _, s := range []transportbox.State{transportbox.Opened, transportbox.InTransit, transportbox.Reserve} {
		states = append(states, s.String())
	}

	var amounts []productAmount
	if err := db.Raw(transportBoxesQuery, states).Scan(&amounts).Error; err != nil {
		return nil, err
	}

	rows := make([]catalog.Row, 0, len(amounts))
	for _, a := range amounts {
		rows = append(rows, catalog.Row{
			ProductCode: a.ProductCode,
			ProductName: a.ProductName,
			Bucket:      stateBuckets[a.State],
			Amount:      a.Amount,
		})
	}
	return rows, nil
}
