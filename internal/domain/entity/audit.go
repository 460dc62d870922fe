package entity

import "time"

// SystemAuditor is recorded as the author of writes performed without an actor,
// such as catalog seeding at startup.
const SystemAuditor = "SYSTEM"

// Auditable is implemented by records that carry creation and modification stamps.
type Auditable interface {
	StampCreated(by string, at time.Time)
	StampUpdated(by string, at time.Time)
}

// SoftDeletable is implemented by records that are never physically removed.
type SoftDeletable interface {
	SoftDelete(by string, at time.Time)
	Restore()
	IsDeleted() bool
}

// Record is the contract every persisted entity satisfies.
type Record interface {
	Auditable
	SoftDeletable
}

// AuditFields is embedded by entities whose writes are attributed to an actor.
// The values are set by the persistence layer, never from client input.
type AuditFields struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(100)" json:"updated_by"`
}

func (a *AuditFields) StampCreated(by string, at time.Time) {
	a.CreatedAt = at
	a.CreatedBy = by
	a.UpdatedAt = at
	a.UpdatedBy = by
}

func (a *AuditFields) StampUpdated(by string, at time.Time) {
	a.UpdatedAt = at
	a.UpdatedBy = by
}

// SoftDeleteFields is embedded by every persisted entity.
// Deleted implies DeletedAt and DeletedBy are set; not deleted implies both are nil.
type SoftDeleteFields struct {
	Deleted   bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *string    `gorm:"type:varchar(100)" json:"-"`
}

func (s *SoftDeleteFields) SoftDelete(by string, at time.Time) {
	s.Deleted = true
	s.DeletedAt = &at
	s.DeletedBy = &by
}

func (s *SoftDeleteFields) Restore() {
	s.Deleted = false
	s.DeletedAt = nil
	s.DeletedBy = nil
}

func (s *SoftDeleteFields) IsDeleted() bool {
	return s.Deleted
}
