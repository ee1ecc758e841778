package models

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GoogleID           string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Email              string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Name               string    `gorm:"type:varchar(255)" json:"name"`
	Picture            string    `gorm:"type:varchar(512)" json:"picture"`
	GoogleAccessToken  string    `gorm:"type:text" json:"-"`
	GoogleRefreshToken string    `gorm:"type:text" json:"-"`
	TokenExpiresAt     time.Time `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
