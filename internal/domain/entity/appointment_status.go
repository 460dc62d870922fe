package entity

// Status codes the lifecycle engine attaches behavior to.
// The catalog may hold more codes; those carry no special meaning.
const (
	StatusCodeScheduled  = "SCHEDULED"
	StatusCodeInProgress = "IN_PROGRESS"
	StatusCodeCompleted  = "COMPLETED"
	StatusCodeCanceled   = "CANCELED"
)

// DefaultStatuses are created by the catalog on startup when absent.
var DefaultStatuses = []AppointmentStatus{
	{Code: StatusCodeScheduled, Description: "Appointment scheduled"},
	{Code: StatusCodeInProgress, Description: "Appointment in progress"},
	{Code: StatusCodeCompleted, Description: "Appointment completed"},
	{Code: StatusCodeCanceled, Description: "Appointment canceled"},
}

// IsBuiltinStatus reports whether code is one of DefaultStatuses.
func IsBuiltinStatus(code string) bool {
	for _, s := range DefaultStatuses {
		if s.Code == code {
			return true
		}
	}
	return false
}

// AppointmentStatus is an entry of the status catalog.
type AppointmentStatus struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(50);not null;index" json:"code"`
	Description string `gorm:"type:varchar(100);not null" json:"description"`

	AuditFields
	SoftDeleteFields
}

func (AppointmentStatus) TableName() string {
	return "appointment_statuses"
}

func (s *AppointmentStatus) IsTerminal() bool {
	return s.Code == StatusCodeCompleted
}

// RequiresClinician reports whether moving into this status is reserved to doctors and admins.
func (s *AppointmentStatus) RequiresClinician() bool {
	return s.Code == StatusCodeInProgress || s.Code == StatusCodeCompleted
}
