package models

import "time"

// User represents an account. Email is the login identifier.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Username  string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"size:150;not null"`
	LastName  string    `json:"last_name" gorm:"size:150;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"-"`
}

// Subscription is a directed edge: Subscriber follows User.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:1;check:chk_subscriptions_self,user_id <> subscriber_id"`
	SubscriberID uint      `json:"subscriber_id" gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:2;index"`
	CreatedAt    time.Time `json:"created_at"`

	// Foreign Key Relations
	User       *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Subscriber *User `json:"-" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
}

// AuthToken is the server side record of an issued token. Deleting the row
// revokes the token.
type AuthToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
