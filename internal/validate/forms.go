package validate

// LoginForm is the sign-in screen input.
type LoginForm struct {
	Username  string `validate:"required" label:"username"`
	Password  string `validate:"required" label:"password"`
	LoginType string `validate:"oneof=admin employee" label:"login type"`
}

// CreateUserForm is the admin "new user" input.
type CreateUserForm struct {
	Username        string `validate:"required,min=3,max=50" label:"username"`
	Email           string `validate:"omitempty,email" label:"email"`
	FullName        string `validate:"max=100" label:"full name"`
	Password        string `validate:"required,password" label:"password"`
	ConfirmPassword string `validate:"required,eqfield=Password" label:"password confirmation"`
	Role            string `validate:"required,role" label:"role"`
}

// ChangePasswordForm is the "change my password" input.
type ChangePasswordForm struct {
	Current string `validate:"required" label:"current password"`
	New     string `validate:"required,password,nefield=Current" label:"new password"`
	Confirm string `validate:"required,eqfield=New" label:"password confirmation"`
}

// ResetPasswordForm is the admin "reset another user's password" input.
type ResetPasswordForm struct {
	Password string `validate:"required,password" label:"password"`
}

// RejectForm is the discrepancy rejection input.
type RejectForm struct {
	Reason string `validate:"required,max=500" label:"reason"`
}
