package models

// Recommendation is migrated with the rest of the schema but no route reads
// or writes it yet.
type Recommendation struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	Destination    string  `json:"destination" gorm:"not null"`
	NoOfTravellers int     `json:"noOfTravellers" gorm:"column:number_of_travellers;not null"`
	Budget         float64 `json:"budget" gorm:"type:numeric(10,2);not null"`
	NoOfDays       int     `json:"noOfDays" gorm:"column:number_of_days;not null"`
	Rating         float64 `json:"rating" gorm:"type:numeric;not null"`
}

func (Recommendation) TableName() string { return Schema + ".recommendations" }
