package schema

import "time"

type CreateUser struct {
	FullName string   `json:"fullName" validate:"required,min=2,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=50,hasupper,haslower,hasdigit"`
	Phone    string   `json:"phone,omitempty" validate:"omitempty,phone"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=admin user super-user"`
}

type UpdateUser struct {
	FullName *string  `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password *string  `json:"password,omitempty" validate:"omitempty,min=6,max=50,hasupper,haslower,hasdigit"`
	Phone    *string  `json:"phone,omitempty" validate:"omitempty,phone"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=admin user super-user"`
	IsActive *bool    `json:"isActive,omitempty"`
}

type CreateAppointment struct {
	Date      time.Time `json:"date" validate:"required"`
	UserID    string    `json:"userId" validate:"required,uuid"`
	ServiceID string    `json:"serviceId" validate:"required,uuid"`
	StaffID   string    `json:"staffId" validate:"required,uuid"`
	Notes     string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateAppointment struct {
	Date      *time.Time `json:"date,omitempty"`
	ServiceID *string    `json:"serviceId,omitempty" validate:"omitempty,uuid"`
	StaffID   *string    `json:"staffId,omitempty" validate:"omitempty,uuid"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

type AppointmentStatus struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}
