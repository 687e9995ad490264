package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"itinera/internal/models/db_models"
)

// PlannerStateRepository is durable per-key string storage scoped by session.
type PlannerStateRepository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type plannerStateRepository struct {
	db *gorm.DB
}

func NewPlannerStateRepository(db *gorm.DB) PlannerStateRepository {
	return &plannerStateRepository{db: db}
}

func (r *plannerStateRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var row db_models.PlannerState
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (r *plannerStateRepository) Set(ctx context.Context, sessionID, key, value string) error {
	row := db_models.PlannerState{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now().Unix(),
			"deleted_at": nil,
		}),
	}).Create(&row).Error
}

func (r *plannerStateRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("session_id = ?", sessionID).
		Delete(&db_models.PlannerState{}).Error
}
