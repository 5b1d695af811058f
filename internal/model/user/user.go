package user

type Role string

const (
	RoleRegular   Role = "regular"
	RoleCashier   Role = "cashier"
	RoleManager   Role = "manager"
	RoleSuperuser Role = "superuser"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleRegular, RoleCashier, RoleManager, RoleSuperuser:
		return true
	}
	return false
}

type User struct {
	Role     Role  `json:"role"`
	ID       int64 `json:"id"`
	Points   int64 `json:"points"`
	Verified bool  `json:"verified"`
}
