package gormstore

import (
	"context"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterSequence allocates sequence values from the counters table.
type CounterSequence struct {
	db *gorm.DB
}

func NewCounterSequence(db *gorm.DB) *CounterSequence {
	return &CounterSequence{db: db}
}

// Next increments the named counter, creating it at 1 on first use.
func (s *CounterSequence) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := models.Counter{Name: name, Value: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("counters.value + 1")}),
		}).Create(&counter).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Counter{}).Select("value").Where("name = ?", name).Scan(&value).Error
	})
	return value, err
}
