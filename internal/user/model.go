package user

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

// User is a storefront account. Name is what orders record as the customer, so
// order history is matched against it by plain string equality.
type User struct {
	Name     string `json:"nama"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	WA       string `json:"wa"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"alamat,omitempty"`
	Password string `json:"password,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized drops the password so the user can be returned to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

type RegisterInput struct {
	Name     string `json:"nama" validate:"required"`
	Username string `json:"username" validate:"required"`
	WA       string `json:"wa" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"alamat"`
	Password string `json:"password" validate:"required,min=3"`
}

type ResetPasswordInput struct {
	Username        string `json:"username"`
	WA              string `json:"wa"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateInput is the admin edit form. Username identifies the account and is
// never changed; the password is kept as is.
type UpdateInput struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"nama" validate:"required"`
	WA       string `json:"wa" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"alamat"`
	Role     Role   `json:"role" validate:"required,oneof=Admin Customer"`
}
