package schema

type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type SignUp struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,hasupper,haslower,hasdigit"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type VerifyEmailCode struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResendEmailCode struct {
	Email string `json:"email" validate:"required,email"`
}
