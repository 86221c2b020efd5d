package models

import "time"

// Image is a stored photo. The row keeps the media-host URL and public ID;
// the bytes themselves live in object storage. Deleting the owner cascades
// to the image, and deleting the image cascades to its comments and the
// rows of the tag join table.
type Image struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      *uint     `json:"user_id" gorm:"index;constraint:OnDelete:CASCADE"`
	URL         string    `json:"url" gorm:"type:varchar(255);not null"`
	PublicID    string    `json:"public_id" gorm:"type:varchar(150)"`
	Description string    `json:"description" gorm:"type:varchar(150)"`
	QRCodeURL   *string   `json:"qr_url" gorm:"column:qr_url;type:varchar(255)"`
	Tags        []Tag     `json:"tags" gorm:"many2many:image_m2m_tag;constraint:OnDelete:CASCADE"`
	Comments    []Comment `json:"-" gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tag is a unique, lower-cased short label attached to images through the
// image_m2m_tag join table. The five-tags-per-image limit is enforced at
// the service layer, not here.
type Tag struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	TagName string  `json:"tag_name" gorm:"uniqueIndex;type:varchar(13);not null" validate:"required,max=13"`
	Images  []Image `json:"-" gorm:"many2many:image_m2m_tag"`
}
