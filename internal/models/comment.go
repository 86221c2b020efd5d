package models

import "time"

// Comment is free text left by a user under an image. Both foreign keys
// cascade on delete.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ImageID   uint      `json:"image_id" gorm:"index;not null;constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"index;not null;constraint:OnDelete:CASCADE"`
	Comment   string    `json:"comment" gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
