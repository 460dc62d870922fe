package repository

import (
	"errors"

	"clinic-scheduling/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale is returned when a write targets a row that no longer exists or is already deleted.
	ErrStale = errors.New("record missing or deleted")
)

// Columns written only on create or by the soft-delete operations.
var protectedColumns = []string{
	clause.Associations,
	"created_at",
	"created_by",
	"deleted",
	"deleted_at",
	"deleted_by",
}

// notDeleted is the predicate added to every default read.
func notDeleted() clause.Expression {
	return clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "deleted"}, Value: false}
}

// table applies the audit and soft-delete policy to one entity type.
// Repositories only reach rows through query, so a default read cannot return a deleted row.
type table[T any, PT interface {
	*T
	entity.Record
}] struct{}

// query starts a read over non-deleted rows.
func (table[T, PT]) query(db *gorm.DB) *gorm.DB {
	return db.Model(new(T)).Where(notDeleted())
}

// unscoped starts a read that includes deleted rows.
func (table[T, PT]) unscoped(db *gorm.DB) *gorm.DB {
	return db.Model(new(T))
}

// first loads one row from q, returning nil when none matches.
func (table[T, PT]) first(q *gorm.DB, conds ...interface{}) (PT, error) {
	record := new(T)
	if err := q.First(record, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return PT(record), nil
}

func (table[T, PT]) create(db *gorm.DB, actor entity.Actor, record PT) error {
	record.Restore()
	record.StampCreated(actor.Auditor(), db.NowFunc())
	return translate(db.Omit(clause.Associations).Create(record).Error)
}

func (table[T, PT]) save(db *gorm.DB, actor entity.Actor, record PT) error {
	record.StampUpdated(actor.Auditor(), db.NowFunc())
	result := db.Model(record).
		Where(notDeleted()).
		Select("*").
		Omit(protectedColumns...).
		Updates(record)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (table[T, PT]) softDelete(db *gorm.DB, actor entity.Actor, record PT) error {
	record.SoftDelete(actor.Auditor(), db.NowFunc())
	result := db.Model(record).
		Where(notDeleted()).
		Select("deleted", "deleted_at", "deleted_by").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (table[T, PT]) restore(db *gorm.DB, actor entity.Actor, record PT) error {
	record.Restore()
	record.StampUpdated(actor.Auditor(), db.NowFunc())
	result := db.Model(record).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "deleted"}, Value: true}).
		Select("deleted", "deleted_at", "deleted_by", "updated_at", "updated_by").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// translate maps driver-level unique violations to ErrDuplicate.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
