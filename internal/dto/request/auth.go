package request

// Name and password rules are applied by the auth service in a fixed order so
// the form shows the first failing reason; only email is tag-validated.
type RegisterRequest struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Email           string `form:"email" validate:"required,email,max=100"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// NewUserRequest is an account created outside the registration form, so
// every rule is tag-validated.
type NewUserRequest struct {
	FirstName string `validate:"person_name,max=50"`
	LastName  string `validate:"person_name,max=50"`
	Email     string `validate:"required,email,max=100"`
	Password  string `validate:"strong_password"`
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Action string `form:"action"`
	OTP    string `form:"otp"`
}

func (r *VerifyOTPRequest) IsResend() bool {
	return r.Action == "resend"
}

type ForgotPasswordRequest struct {
	Email string `form:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}
