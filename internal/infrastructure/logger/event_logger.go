package logger

import (
	"context"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"gorm.io/gorm"
)

type InconsistencyEventModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	Kind               string `gorm:"not null;index:idx_inconsistency_open"`
	Operation          string `gorm:"not null"`
	SubjectAddress     string `gorm:"not null;index"`
	RecordID           string
	LastCompletedLevel int
	Step               string
	Error              string
	Attempts           int
	Resolved           bool `gorm:"not null;default:false;index:idx_inconsistency_open"`
	CreatedAt          time.Time
	ResolvedAt         *time.Time
}

func (InconsistencyEventModel) TableName() string { return "inconsistency_events" }

// PGInconsistencyLog persists partial failures so they survive the request that hit them.
type PGInconsistencyLog struct {
	db *gorm.DB
}

func NewPGInconsistencyLog(db *gorm.DB) *PGInconsistencyLog {
	return &PGInconsistencyLog{db: db}
}

func (l *PGInconsistencyLog) RecordInconsistency(ctx context.Context, event *domain.InconsistencyEvent) error {
	model := &InconsistencyEventModel{
		ID:                 event.ID,
		Kind:               string(event.Kind),
		Operation:          event.Operation,
		SubjectAddress:     event.SubjectAddress,
		RecordID:           event.RecordID,
		LastCompletedLevel: event.LastCompletedLevel,
		Step:               event.Step,
		Error:              event.Error,
		CreatedAt:          event.CreatedAt,
	}
	return l.db.WithContext(ctx).Create(model).Error
}

func (l *PGInconsistencyLog) ListOpenInconsistencies(ctx context.Context, kind domain.ErrorKind, limit int) ([]*domain.InconsistencyEvent, error) {
	query := l.db.WithContext(ctx).Where("resolved = ?", false)
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []InconsistencyEventModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	events := make([]*domain.InconsistencyEvent, len(models))
	for i, m := range models {
		events[i] = &domain.InconsistencyEvent{
			ID:                 m.ID,
			Kind:               domain.ErrorKind(m.Kind),
			Operation:          m.Operation,
			SubjectAddress:     m.SubjectAddress,
			RecordID:           m.RecordID,
			LastCompletedLevel: m.LastCompletedLevel,
			Step:               m.Step,
			Error:              m.Error,
			Attempts:           m.Attempts,
			Resolved:           m.Resolved,
			CreatedAt:          m.CreatedAt,
			ResolvedAt:         m.ResolvedAt,
		}
	}
	return events, nil
}

func (l *PGInconsistencyLog) MarkInconsistencyResolved(ctx context.Context, id string, at time.Time) error {
	res := l.db.WithContext(ctx).
		Model(&InconsistencyEventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (l *PGInconsistencyLog) IncrementInconsistencyAttempts(ctx context.Context, id string, lastError string) error {
	return l.db.WithContext(ctx).
		Model(&InconsistencyEventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts": gorm.Expr("attempts + ?", 1),
			"error":    lastError,
		}).Error
}
