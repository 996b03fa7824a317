package models

import "time"

// UserAuth represents a user account. Sign-up requires email verification
// before sign-in succeeds; the email doubles as the "acted by" attribution
// field on every transition.
type UserAuth struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	IsVerified  bool       `gorm:"default:false" json:"isVerified"`
	VerifyToken string     `gorm:"index" json:"-"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for UserAuth model
func (UserAuth) TableName() string {
	return "user_auths"
}
