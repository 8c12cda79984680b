package model

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleOwner UserRole = "owner"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"   // Ожидает активации администратором
	UserStatusActive    UserStatus = "active"    // Активен, может бронировать
	UserStatusSuspended UserStatus = "suspended" // Заблокирован
)

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	PropertyID     *int64     `json:"property_id"` // указатель - до активации nil
	WeekdayQuota   int        `json:"weekday_quota"`
	WeekendQuota   int        `json:"weekend_quota"`
	WeekdayBalance int        `json:"weekday_balance"`
	WeekendBalance int        `json:"weekend_balance"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsAdmin проверяет является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
