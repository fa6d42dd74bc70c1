package actions

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

// Resource is the list/get/create/update/delete surface shared by every
// collection endpoint. T is the record, C the create form, U the partial
// update form.
type Resource[T, C, U any] struct {
	client *Client
	name   string
}

type (
	Services     = Resource[model.Service, schema.CreateService, schema.UpdateService]
	StaffMembers = Resource[model.Staff, schema.CreateStaff, schema.UpdateStaff]
	Users        = Resource[model.User, schema.CreateUser, schema.UpdateUser]
	Accounts     = Resource[model.Account, schema.CreateAccount, schema.UpdateAccount]
	AccountTypes = Resource[model.AccountType, schema.CreateAccountType, schema.UpdateAccountType]
	Currencies   = Resource[model.Currency, schema.CreateCurrency, schema.UpdateCurrency]
	Appointments = Resource[model.Appointment, schema.CreateAppointment, schema.UpdateAppointment]
)

func (c *Client) Services() Services         { return Services{client: c, name: "services"} }
func (c *Client) Staff() StaffMembers        { return StaffMembers{client: c, name: "staff"} }
func (c *Client) Users() Users               { return Users{client: c, name: "users"} }
func (c *Client) Accounts() Accounts         { return Accounts{client: c, name: "accounts"} }
func (c *Client) AccountTypes() AccountTypes { return AccountTypes{client: c, name: "account-types"} }
func (c *Client) Currencies() Currencies     { return Currencies{client: c, name: "currency"} }
func (c *Client) Appointments() Appointments { return Appointments{client: c, name: "appointments"} }

// Name is the collection path segment, e.g. "account-types".
func (r Resource[T, C, U]) Name() string { return r.name }

func (r Resource[T, C, U]) op(verb string) string {
	return strings.ReplaceAll(r.name, "-", "_") + "." + verb
}

// List returns the backend's array as sent, in the backend's order.
func (r Resource[T, C, U]) List(ctx context.Context, page schema.Page) ([]T, error) {
	if err := schema.Validate(&page); err != nil {
		return nil, err
	}
	query := url.Values{}
	if page.Limit > 0 {
		query.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.Offset > 0 {
		query.Set("offset", strconv.Itoa(page.Offset))
	}
	var out []T
	if err := r.client.do(ctx, call{op: r.op("list"), method: http.MethodGet, path: []string{r.name}, query: query}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r Resource[T, C, U]) Get(ctx context.Context, id string) (T, error) {
	var out T
	id, err := requireID(id)
	if err != nil {
		return out, err
	}
	if err := r.client.do(ctx, call{op: r.op("get"), method: http.MethodGet, path: []string{r.name, id}}, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (r Resource[T, C, U]) Create(ctx context.Context, in C) (T, error) {
	var out T
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	if err := r.client.do(ctx, call{op: r.op("create"), method: http.MethodPost, path: []string{r.name}, body: in}, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update sends a PATCH carrying only the fields set on in.
func (r Resource[T, C, U]) Update(ctx context.Context, id string, in U) (T, error) {
	var out T
	id, err := requireID(id)
	if err != nil {
		return out, err
	}
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	if err := r.client.do(ctx, call{op: r.op("update"), method: http.MethodPatch, path: []string{r.name, id}, body: in}, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (r Resource[T, C, U]) Delete(ctx context.Context, id string) (model.DeleteResponse, error) {
	var out model.DeleteResponse
	id, err := requireID(id)
	if err != nil {
		return out, err
	}
	if err := r.client.do(ctx, call{op: r.op("delete"), method: http.MethodDelete, path: []string{r.name, id}}, &emptyOK{&out}); err != nil {
		return model.DeleteResponse{}, err
	}
	return out, nil
}

// SetAppointmentStatus moves an appointment through its lifecycle.
func (c *Client) SetAppointmentStatus(ctx context.Context, id string, in schema.AppointmentStatus) (model.Appointment, error) {
	var out model.Appointment
	id, err := requireID(id)
	if err != nil {
		return out, err
	}
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	err = c.do(ctx, call{op: "appointments.set_status", method: http.MethodPatch, path: []string{"appointments", id}, body: in}, &out)
	if err != nil {
		return model.Appointment{}, err
	}
	return out, nil
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &schema.ValidationError{Fields: []schema.FieldError{{
			Field:   "id",
			Rule:    "required",
			Message: "id is required",
		}}}
	}
	return id, nil
}
