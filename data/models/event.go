package models

// Event is the single resource this service manages. Description is a
// pointer so an absent description survives the round trip as JSON null
// rather than an empty string.
type Event struct {
	ID            int64         `json:"id" db:"id"`
	Title         string        `validate:"notblank" json:"title" db:"title"`
	Description   *string       `json:"description" db:"description"`
	StartDateTime LocalDateTime `validate:"required" json:"startDateTime" db:"start_date_time"`
	EndDateTime   LocalDateTime `validate:"required" json:"endDateTime" db:"end_date_time"`
	IsCompleted   bool          `json:"isCompleted" db:"is_completed"`
}

func (Event) TableName() string {
	return "event"
}
