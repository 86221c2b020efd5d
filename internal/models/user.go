package models

import "time"

// Role is the closed set of privilege levels a user can hold. A user has
// exactly one role, assigned at signup and never reassigned by any flow.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is the identity record. The password column stores a bcrypt hash and
// is never serialized. RefreshToken holds at most one currently valid
// refresh token; rotation overwrites it and replay detection clears it.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,min=3,max=50"`
	FirstName    string    `json:"first_name,omitempty" gorm:"type:varchar(25)" validate:"omitempty,max=25"`
	LastName     string    `json:"last_name,omitempty" gorm:"type:varchar(25)" validate:"omitempty,max=25"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,email"`
	Sex          string    `json:"sex,omitempty" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
	Password     string    `json:"-" gorm:"type:varchar(150);not null" validate:"required,min=6"`
	RefreshToken *string   `json:"-" gorm:"type:varchar(255)"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	Role         Role      `json:"role" gorm:"type:varchar(10);default:user"`
	Avatar       *string   `json:"avatar" gorm:"type:varchar(255)"`
	Images       []Image   `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
