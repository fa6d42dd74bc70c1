// Package hooks binds each action to the query layer with a fixed key, so
// every caller that asks for the same data shares one cache entry.
package hooks

import (
	"context"
	"strconv"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/actions"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

// related lists the collections whose records embed another collection's
// records and therefore go stale when it changes.
var related = map[string][]string{
	"services":      {"staff", "appointments"},
	"staff":         {"services", "appointments"},
	"users":         {"appointments"},
	"currency":      {"services", "accounts"},
	"account-types": {"accounts"},
}

var authKey = query.K("auth")

type Hooks struct {
	api *actions.Client
	qc  *query.Client
}

func New(api *actions.Client, qc *query.Client) *Hooks {
	return &Hooks{api: api, qc: qc}
}

func (h *Hooks) Query() *query.Client { return h.qc }

func (h *Hooks) Services() Collection[model.Service, schema.CreateService, schema.UpdateService] {
	return newCollection(h.qc, h.api.Services())
}

func (h *Hooks) Staff() Collection[model.Staff, schema.CreateStaff, schema.UpdateStaff] {
	return newCollection(h.qc, h.api.Staff())
}

func (h *Hooks) Users() Collection[model.User, schema.CreateUser, schema.UpdateUser] {
	return newCollection(h.qc, h.api.Users())
}

func (h *Hooks) Accounts() Collection[model.Account, schema.CreateAccount, schema.UpdateAccount] {
	return newCollection(h.qc, h.api.Accounts())
}

func (h *Hooks) AccountTypes() Collection[model.AccountType, schema.CreateAccountType, schema.UpdateAccountType] {
	return newCollection(h.qc, h.api.AccountTypes())
}

func (h *Hooks) Currencies() Collection[model.Currency, schema.CreateCurrency, schema.UpdateCurrency] {
	return newCollection(h.qc, h.api.Currencies())
}

func (h *Hooks) Appointments() Collection[model.Appointment, schema.CreateAppointment, schema.UpdateAppointment] {
	return newCollection(h.qc, h.api.Appointments())
}

// StatusChange is the input of SetAppointmentStatus.
type StatusChange struct {
	ID     string
	Status schema.AppointmentStatus
}

func (h *Hooks) SetAppointmentStatus() *query.Mutation[StatusChange, model.Appointment] {
	return query.NewMutation(h.qc,
		func(ctx context.Context, in StatusChange) (model.Appointment, error) {
			return h.api.SetAppointmentStatus(ctx, in.ID, in.Status)
		},
		func(StatusChange, model.Appointment) []query.Key {
			return invalidationKeys("appointments")
		})
}

// CheckStatus is never retried: a rejected token will not become valid. The
// reply carries a bearer token, so it stays in process memory.
func (h *Hooks) CheckStatus() *query.Query[model.AuthResponse] {
	return query.New(h.qc, query.K("auth", "status"), h.api.CheckStatus,
		query.Retry(0), query.StaleTime(0), query.LocalOnly())
}

func (h *Hooks) SignIn() *query.Mutation[schema.SignIn, model.AuthResponse] {
	return query.NewMutation(h.qc, h.api.SignIn, invalidateAuth[schema.SignIn, model.AuthResponse])
}

func (h *Hooks) SignUp() *query.Mutation[schema.SignUp, model.SignUpResponse] {
	return query.NewMutation(h.qc, h.api.SignUp, nil)
}

func (h *Hooks) VerifyEmailCode() *query.Mutation[schema.VerifyEmailCode, model.AuthResponse] {
	return query.NewMutation(h.qc, h.api.VerifyEmailCode, invalidateAuth[schema.VerifyEmailCode, model.AuthResponse])
}

func (h *Hooks) ResendEmailCode() *query.Mutation[schema.ResendEmailCode, model.SignUpResponse] {
	return query.NewMutation(h.qc, h.api.ResendEmailCode, nil)
}

// UploadImage takes the path of a local image file.
func (h *Hooks) UploadImage() *query.Mutation[string, model.Image] {
	return query.NewMutation(h.qc, h.api.UploadImageFile, nil)
}

func invalidateAuth[In, Out any](In, Out) []query.Key { return []query.Key{authKey} }

func invalidationKeys(name string) []query.Key {
	keys := []query.Key{query.K(name)}
	for _, other := range related[name] {
		keys = append(keys, query.K(other))
	}
	return keys
}

// ListKey is the cache key of one page of a collection. The default page
// uses the bare collection key.
func ListKey(name string, page schema.Page) query.Key {
	if page.Limit == 0 && page.Offset == 0 {
		return query.K(name)
	}
	return query.K(name, "?limit="+strconv.Itoa(page.Limit)+"&offset="+strconv.Itoa(page.Offset))
}

func DetailKey(name, id string) query.Key { return query.K(name, id) }
