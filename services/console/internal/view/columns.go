package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
)

const dateLayout = "2006-01-02 15:04"

var ServiceColumns = []Column[model.Service]{
	{Title: "ID", Value: func(s model.Service) string { return s.ID }},
	{Title: "Title", Value: func(s model.Service) string { return s.Title }},
	{Title: "Price", Value: func(s model.Service) string { return price(s.Price, s.Currency) }},
	{Title: "Duration", Value: func(s model.Service) string { return minutes(s.DurationMinutes) }},
	{Title: "Staff", Value: func(s model.Service) string {
		names := make([]string, 0, len(s.Staff))
		for _, st := range s.Staff {
			names = append(names, st.FullName())
		}
		return strings.Join(names, ", ")
	}},
	{Title: "Active", Value: func(s model.Service) string { return yesNo(s.IsActive) }},
}

var StaffColumns = []Column[model.Staff]{
	{Title: "ID", Value: func(s model.Staff) string { return s.ID }},
	{Title: "Name", Value: func(s model.Staff) string { return s.FullName() }},
	{Title: "Email", Value: func(s model.Staff) string { return s.Email }},
	{Title: "Phone", Value: func(s model.Staff) string { return s.Phone }},
	{Title: "Services", Value: func(s model.Staff) string { return strconv.Itoa(len(s.Services)) }},
	{Title: "Active", Value: func(s model.Staff) string { return yesNo(s.IsActive) }},
}

var UserColumns = []Column[model.User]{
	{Title: "ID", Value: func(u model.User) string { return u.ID }},
	{Title: "Name", Value: func(u model.User) string { return u.FullName }},
	{Title: "Email", Value: func(u model.User) string { return u.Email }},
	{Title: "Roles", Value: func(u model.User) string { return strings.Join(u.Roles, ", ") }},
	{Title: "Active", Value: func(u model.User) string { return yesNo(u.IsActive) }},
}

var AccountColumns = []Column[model.Account]{
	{Title: "ID", Value: func(a model.Account) string { return a.ID }},
	{Title: "Name", Value: func(a model.Account) string { return a.Name }},
	{Title: "Type", Value: func(a model.Account) string {
		if a.AccountType == nil {
			return ""
		}
		return a.AccountType.Name
	}},
	{Title: "Balance", Value: func(a model.Account) string { return price(a.Balance, a.Currency) }},
	{Title: "Active", Value: func(a model.Account) string { return yesNo(a.IsActive) }},
}

var AccountTypeColumns = []Column[model.AccountType]{
	{Title: "ID", Value: func(a model.AccountType) string { return a.ID }},
	{Title: "Name", Value: func(a model.AccountType) string { return a.Name }},
	{Title: "Description", Value: func(a model.AccountType) string { return a.Description }},
}

var CurrencyColumns = []Column[model.Currency]{
	{Title: "ID", Value: func(c model.Currency) string { return c.ID }},
	{Title: "Code", Value: func(c model.Currency) string { return c.Code }},
	{Title: "Name", Value: func(c model.Currency) string { return c.Name }},
	{Title: "Symbol", Value: func(c model.Currency) string { return c.Symbol }},
}

var AppointmentColumns = []Column[model.Appointment]{
	{Title: "ID", Value: func(a model.Appointment) string { return a.ID }},
	{Title: "Date", Value: func(a model.Appointment) string { return date(a.Date) }},
	{Title: "Status", Value: func(a model.Appointment) string { return CapitalizeFirstWord(string(a.Status)) }},
	{Title: "Customer", Value: func(a model.Appointment) string {
		if a.User == nil {
			return ""
		}
		return a.User.FullName
	}},
	{Title: "Service", Value: func(a model.Appointment) string {
		if a.Service == nil {
			return ""
		}
		return a.Service.Title
	}},
	{Title: "Staff", Value: func(a model.Appointment) string {
		if a.Staff == nil {
			return ""
		}
		return a.Staff.FullName()
	}},
}

var ImageColumns = []Column[model.Image]{
	{Title: "File", Value: func(i model.Image) string { return i.FileName }},
	{Title: "URL", Value: func(i model.Image) string { return i.SecureURL }},
}

var SessionColumns = []Column[model.AuthResponse]{
	{Title: "User", Value: func(a model.AuthResponse) string { return a.FullName }},
	{Title: "Email", Value: func(a model.AuthResponse) string { return a.Email }},
	{Title: "Roles", Value: func(a model.AuthResponse) string { return strings.Join(a.Roles, ", ") }},
	{Title: "Active", Value: func(a model.AuthResponse) string { return yesNo(a.IsActive) }},
}

func price(amount float64, c *model.Currency) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	switch {
	case c == nil:
		return s
	case c.Symbol != "":
		return c.Symbol + s
	default:
		return s + " " + c.Code
	}
}

func minutes(m int) string {
	if m <= 0 {
		return ""
	}
	return (time.Duration(m) * time.Minute).String()
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
