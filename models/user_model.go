package models

type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	Role       Role   `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
}
