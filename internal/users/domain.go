package users

import "time"

// Account is a system user as managed by administrators. The password hash
// never leaves the repository layer.
type Account struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Role       string     `json:"rol"`
	FullName   string     `json:"nombre_completo,omitempty"`
	IsActive   bool       `json:"estado"`
	CreatedAt  time.Time  `json:"created_at"`
	LastAccess *time.Time `json:"ultimo_acceso,omitempty"`
}

// CreateInput is the payload accepted when registering an account.
type CreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"rol" validate:"required,oneof=admin supervisor vendedor"`
	FullName string `json:"nombre_completo" validate:"omitempty,max=150"`
}

// UpdateInput is the partial payload for account updates. A nil Password
// leaves the stored hash untouched.
type UpdateInput struct {
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"rol" validate:"omitempty,oneof=admin supervisor vendedor"`
	FullName *string `json:"nombre_completo" validate:"omitempty,max=150"`
}

// ToggleInput flips the account's active flag.
type ToggleInput struct {
	Estado bool `json:"estado"`
}
