package entity

// Specialty is a medical specialty an appointment is booked under.
type Specialty struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	AuditFields
	SoftDeleteFields
}

func (Specialty) TableName() string {
	return "specialties"
}
