// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/dispatch-hub/backend/internal/domain/entity"
)

// UserModel represents the users table in the database.
type UserModel struct {
	ID           int     `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password;type:varchar(255);not null"`
	Role         string  `gorm:"type:varchar(32);not null"`
	ProfileImage *string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
	}
}

// DispatcherModel represents the dispatchers table. Each user owns at most one.
type DispatcherModel struct {
	ID     int `gorm:"primaryKey;autoIncrement"`
	UserID int `gorm:"uniqueIndex;not null"`
	AreaID int `gorm:"index;not null"`
}

// TableName returns the table name for the DispatcherModel.
func (DispatcherModel) TableName() string {
	return "dispatchers"
}

// ToEntity converts a DispatcherModel to a domain Dispatcher entity.
func (m *DispatcherModel) ToEntity() *entity.Dispatcher {
	return &entity.Dispatcher{
		ID:     m.ID,
		UserID: m.UserID,
		AreaID: m.AreaID,
	}
}

// SessionModel represents the sessions table.
type SessionModel struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	SessionToken string `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID       int    `gorm:"index;not null"`
	IsValid      bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
}

// TableName returns the table name for the SessionModel.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts a SessionModel to a domain Session entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		Token:   m.SessionToken,
		UserID:  m.UserID,
		IsValid: m.IsValid,
	}
}

// AllModels lists every model managed by migrations.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&DispatcherModel{},
		&SessionModel{},
	}
}
