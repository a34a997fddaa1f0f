package local

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entryModel struct {
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (entryModel) TableName() string { return "local_entries" }

// SQLBackend keeps each key as one row of an embedded SQLite database.
type SQLBackend struct {
	db            *gorm.DB
	maxValueBytes int
}

// NewSQLBackend migrates the entries table. maxValueBytes <= 0 disables the
// quota.
func NewSQLBackend(db *gorm.DB, maxValueBytes int) (*SQLBackend, error) {
	if err := db.AutoMigrate(&entryModel{}); err != nil {
		return nil, err
	}
	return &SQLBackend{db: db, maxValueBytes: maxValueBytes}, nil
}

func (b *SQLBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var m entryModel
	err := b.db.WithContext(ctx).Where("entry_key = ?", key).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.Value, nil
}

func (b *SQLBackend) Write(ctx context.Context, key string, value []byte) error {
	if err := checkQuota(value, b.maxValueBytes); err != nil {
		return err
	}
	m := entryModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}
