package user

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        uint
	Name      string
	Email     string
	Phone     string
	Password  string
	Role      Role
	CreatedAt time.Time
}
