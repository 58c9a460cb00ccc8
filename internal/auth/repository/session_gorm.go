package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	authdomain "receipt-backend/internal/auth/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRecord is one row of the user_sessions table.
type SessionRecord struct {
	SID    string    `gorm:"column:sid;primaryKey"`
	Sess   string    `gorm:"column:sess;type:text;not null"`
	Expire time.Time `gorm:"column:expire;index;not null"`
}

func (SessionRecord) TableName() string {
	return "user_sessions"
}

// GormSessionRepository implements SessionRepository on postgres via gorm
type GormSessionRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewGormSessionRepository creates a postgres-backed session store
func NewGormSessionRepository(db *gorm.DB, ttl time.Duration) *GormSessionRepository {
	return &GormSessionRepository{db: db, ttl: ttl}
}

func (r *GormSessionRepository) Find(ctx context.Context, id string) (*authdomain.Session, error) {
	var record SessionRecord
	err := r.db.WithContext(ctx).Where("sid = ? AND expire > ?", id, time.Now()).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var sess authdomain.Session
	if err := json.Unmarshal([]byte(record.Sess), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *GormSessionRepository) Save(ctx context.Context, sess *authdomain.Session) error {
	touch(sess, time.Now(), r.ttl)
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	record := &SessionRecord{SID: sess.ID, Sess: string(data), Expire: sess.ExpiresAt}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"sess", "expire"}),
	}).Create(record).Error
	if err != nil {
		return err
	}
	sess.MarkSaved()
	return nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("sid = ?", id).Delete(&SessionRecord{}).Error
}

// PruneExpired removes sessions past their expiry and returns how many were removed.
func (r *GormSessionRepository) PruneExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expire <= ?", time.Now()).Delete(&SessionRecord{})
	return res.RowsAffected, res.Error
}
