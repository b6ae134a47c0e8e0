package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/feature/candles/usecase"
)

type fetchStateGorm struct {
	db *gorm.DB
}

var _ usecase.FetchStateRepository = (*fetchStateGorm)(nil)

// NewFetchStateRepository returns a gorm-backed ingest state store.
func NewFetchStateRepository(db *gorm.DB) *fetchStateGorm {
	return &fetchStateGorm{db: db}
}

// FetchStateModel holds dates as ISO strings so both sqlite and postgres
// compare them lexically.
type FetchStateModel struct {
	Symbol      string `gorm:"primaryKey;size:32"`
	Interval    string `gorm:"primaryKey;column:bar_interval;size:8"`
	LastBarDate string `gorm:"size:10;not null"`
	TargetDate  string `gorm:"size:10;not null"`
	UpdatedAt   time.Time
}

func (FetchStateModel) TableName() string {
	return "fetch_states"
}

func (r *fetchStateGorm) Get(ctx context.Context, symbol, interval string) (entity.FetchState, bool, error) {
	var m FetchStateModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND bar_interval = ?", symbol, interval).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.FetchState{}, false, nil
	}
	if err != nil {
		return entity.FetchState{}, false, err
	}

	last, err := civil.ParseDate(m.LastBarDate)
	if err != nil {
		return entity.FetchState{}, false, fmt.Errorf("fetch state %s/%s: last_bar_date: %w", symbol, interval, err)
	}
	target, err := civil.ParseDate(m.TargetDate)
	if err != nil {
		return entity.FetchState{}, false, fmt.Errorf("fetch state %s/%s: target_date: %w", symbol, interval, err)
	}
	return entity.FetchState{
		Symbol:      m.Symbol,
		Interval:    m.Interval,
		LastBarDate: last,
		TargetDate:  target,
		UpdatedAt:   m.UpdatedAt,
	}, true, nil
}

func (r *fetchStateGorm) Save(ctx context.Context, s entity.FetchState) error {
	m := FetchStateModel{
		Symbol:      s.Symbol,
		Interval:    s.Interval,
		LastBarDate: s.LastBarDate.String(),
		TargetDate:  s.TargetDate.String(),
		UpdatedAt:   s.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "bar_interval"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_bar_date", "target_date", "updated_at"}),
	}).Create(&m).Error
}
