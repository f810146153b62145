package model

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// リクエストごとのログインユーザー。グローバルには持たない
type Session struct {
	UserID int64
	Role   Role
	// 表示名（トークンに無ければ空）
	Name string
}

func (s Session) IsCustomer() bool {
	return s.Role == RoleCustomer
}
