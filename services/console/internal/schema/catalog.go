package schema

// Page is the limit/offset pair every list endpoint accepts. A zero Limit
// leaves the backend default in place.
type Page struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

type CreateService struct {
	Title           string   `json:"title" validate:"required,min=1,max=120"`
	Description     string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price           float64  `json:"price" validate:"gte=0"`
	DurationMinutes int      `json:"durationMinutes" validate:"required,min=5,max=1440"`
	CurrencyID      string   `json:"currencyId,omitempty" validate:"omitempty,uuid"`
	StaffIDs        []string `json:"staffIds,omitempty" validate:"omitempty,dive,uuid"`
	Images          []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type UpdateService struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMinutes *int     `json:"durationMinutes,omitempty" validate:"omitempty,min=5,max=1440"`
	CurrencyID      *string  `json:"currencyId,omitempty" validate:"omitempty,uuid"`
	StaffIDs        []string `json:"staffIds,omitempty" validate:"omitempty,dive,uuid"`
	Images          []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

type CreateStaff struct {
	FirstName  string   `json:"firstName" validate:"required,min=2,max=60"`
	LastName   string   `json:"lastName" validate:"required,min=2,max=60"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone,omitempty" validate:"omitempty,phone"`
	ServiceIDs []string `json:"serviceIds,omitempty" validate:"omitempty,dive,uuid"`
	Image      string   `json:"image,omitempty" validate:"omitempty,url"`
}

type UpdateStaff struct {
	FirstName  *string  `json:"firstName,omitempty" validate:"omitempty,min=2,max=60"`
	LastName   *string  `json:"lastName,omitempty" validate:"omitempty,min=2,max=60"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,phone"`
	ServiceIDs []string `json:"serviceIds,omitempty" validate:"omitempty,dive,uuid"`
	Image      *string  `json:"image,omitempty" validate:"omitempty,url"`
	IsActive   *bool    `json:"isActive,omitempty"`
}

type CreateAccountType struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description,omitempty" validate:"omitempty,max=250"`
}

type UpdateAccountType struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=60"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=250"`
}

type CreateCurrency struct {
	Code   string `json:"code" validate:"required,currencycode"`
	Name   string `json:"name" validate:"required,min=2,max=60"`
	Symbol string `json:"symbol,omitempty" validate:"omitempty,max=5"`
}

type UpdateCurrency struct {
	Code   *string `json:"code,omitempty" validate:"omitempty,currencycode"`
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=60"`
	Symbol *string `json:"symbol,omitempty" validate:"omitempty,max=5"`
}

type CreateAccount struct {
	Name          string  `json:"name" validate:"required,min=2,max=80"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Balance       float64 `json:"balance" validate:"gte=0"`
	AccountTypeID string  `json:"accountTypeId" validate:"required,uuid"`
	CurrencyID    string  `json:"currencyId" validate:"required,uuid"`
}

type UpdateAccount struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Balance       *float64 `json:"balance,omitempty" validate:"omitempty,gte=0"`
	AccountTypeID *string  `json:"accountTypeId,omitempty" validate:"omitempty,uuid"`
	CurrencyID    *string  `json:"currencyId,omitempty" validate:"omitempty,uuid"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

// UploadImage describes a local file before it is sent to /files/upload-image.
type UploadImage struct {
	FileName string `json:"fileName" validate:"required,imageext"`
	Size     int64  `json:"size" validate:"gt=0,max=5242880"`
}
