package entity

// Specialty is a medical specialty a doctor practices
type Specialty struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// DefaultSpecialtyName is shown for doctors without a specialty
const DefaultSpecialtyName = "General Practice"
