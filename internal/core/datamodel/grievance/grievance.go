package grievance

import "time"

// Grievance is the persistence model for citizen complaints. Image bytes are
// never stored, only the client-side file reference.
type Grievance struct {
	ID                 int64     `gorm:"primaryKey"`
	TrackingID         string    `gorm:"column:tracking_id;uniqueIndex;not null"`
	Category           string    `gorm:"column:category;not null"`
	Description        string    `gorm:"column:description;not null"`
	ImageName          *string   `gorm:"column:image_name"`
	ImageMIME          *string   `gorm:"column:image_mime"`
	Latitude           *float64  `gorm:"column:latitude"`
	Longitude          *float64  `gorm:"column:longitude"`
	SubmittedBy        string    `gorm:"column:submitted_by;index;not null"`
	Status             string    `gorm:"column:status;not null;default:Pending"`
	Summary            string    `gorm:"column:summary"`
	AssignedDepartment string    `gorm:"column:assigned_department"`
	NextSteps          string    `gorm:"column:next_steps"`
	SubmittedAt        time.Time `gorm:"column:submitted_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (Grievance) TableName() string {
	return "grievances"
}
