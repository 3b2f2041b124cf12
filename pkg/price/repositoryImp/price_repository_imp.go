package repositoryImp

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"farmhelp/entities"
	"farmhelp/pkg/price/repository"
	"farmhelp/pkg/price/types"
)

type priceRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PriceRepository { return &priceRepo{db} }

func (r *priceRepo) scoped(ctx context.Context, commodity, state string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.PriceObservation{})
	if c := strings.TrimSpace(commodity); c != "" {
		q = q.Where("LOWER(commodity) = ?", strings.ToLower(c))
	}
	if s := strings.TrimSpace(state); s != "" {
		q = q.Where("LOWER(state) = ?", strings.ToLower(s))
	}
	return q
}

func (r *priceRepo) Query(ctx context.Context, f types.PriceFilter) ([]entities.PriceObservation, int64, error) {
	q := r.scoped(ctx, f.Commodity, f.State)
	if d := strings.TrimSpace(f.District); d != "" {
		q = q.Where("LOWER(district) = ?", strings.ToLower(d))
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_quintal >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_quintal <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []entities.PriceObservation
	if err := q.Order("arrival_date DESC").Order("price_per_quintal DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *priceRepo) Latest(ctx context.Context, commodity, market string) (*entities.PriceObservation, error) {
	var o entities.PriceObservation
	err := r.scoped(ctx, commodity, "").
		Where("LOWER(market_name) = ?", strings.ToLower(strings.TrimSpace(market))).
		Order("arrival_date DESC").Order("id ASC").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *priceRepo) All(ctx context.Context, commodity, state string) ([]entities.PriceObservation, error) {
	var out []entities.PriceObservation
	if err := r.scoped(ctx, commodity, state).Order("arrival_date DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priceRepo) Window(ctx context.Context, commodity, state string, from, to time.Time) ([]entities.PriceObservation, error) {
	var out []entities.PriceObservation
	err := r.scoped(ctx, commodity, state).
		Where("arrival_date >= ? AND arrival_date <= ?", from.UTC(), to.UTC()).
		Order("arrival_date ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priceRepo) Exists(ctx context.Context, commodity, market string, arrival time.Time) (bool, error) {
	var n int64
	err := r.scoped(ctx, commodity, "").
		Where("market_name = ? AND arrival_date = ?", market, arrival.UTC()).
		Count(&n).Error
	return n > 0, err
}

func (r *priceRepo) Create(ctx context.Context, o *entities.PriceObservation) error {
	o.ArrivalDate = o.ArrivalDate.UTC()
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *priceRepo) Commodities(ctx context.Context) ([]types.CommoditySummary, error) {
	var out []types.CommoditySummary
	err := r.db.WithContext(ctx).Model(&entities.PriceObservation{}).
		Select(`commodity,
			COUNT(id) AS record_count,
			AVG(price_per_quintal) AS avg_price_per_quintal,
			MIN(price_per_quintal) AS min_price_per_quintal,
			MAX(price_per_quintal) AS max_price_per_quintal,
			COUNT(DISTINCT market_name) AS market_count,
			COUNT(DISTINCT state) AS state_count`).
		Group("commodity").
		Order("commodity").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priceRepo) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(&entities.PriceObservation{})
	return res.RowsAffected, res.Error
}

func (r *priceRepo) DeleteSource(ctx context.Context, source string) (int64, error) {
	res := r.db.WithContext(ctx).Where("source = ?", source).Delete(&entities.PriceObservation{})
	return res.RowsAffected, res.Error
}
