package models

type Customer struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	Name     string `gorm:"not null;index" json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}
