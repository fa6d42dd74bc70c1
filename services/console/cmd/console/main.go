package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/libs/runtime"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/apierror"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/hooks"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

func main() {
	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one console invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return 0
	}
	if a.out != nil {
		_ = view.New(stderr, a.out.Format()).Error(err)
	} else {
		fmt.Fprintln(stderr, "error:", err)
	}
	if apierror.IsUnauthorized(err) && (a.out == nil || a.out.Format() != view.FormatJSON) {
		fmt.Fprintln(stderr, "Sign in with `console auth signin` and export the token as BOOKING_TOKEN.")
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "console",
		Short:         "Manage services, staff, accounts and appointments of the booking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.apiURL, "api-url", "", "backend base URL (default $BOOKING_API_URL)")
	flags.StringVar(&a.flags.token, "token", "", "bearer token (default $BOOKING_TOKEN)")
	flags.StringVarP(&a.flags.output, "output", "o", "table", "output format: table or json")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newAuthCmd(a),
		newResourceCmd(a, resourceDef[model.Service, schema.CreateService, schema.UpdateService]{
			name: "services", singular: "service", columns: view.ServiceColumns,
			collection: (*hooks.Hooks).Services,
		}),
		newResourceCmd(a, resourceDef[model.Staff, schema.CreateStaff, schema.UpdateStaff]{
			name: "staff", singular: "staff member", columns: view.StaffColumns,
			collection: (*hooks.Hooks).Staff,
		}),
		newResourceCmd(a, resourceDef[model.User, schema.CreateUser, schema.UpdateUser]{
			name: "users", singular: "user", columns: view.UserColumns,
			collection: (*hooks.Hooks).Users,
		}),
		newResourceCmd(a, resourceDef[model.Account, schema.CreateAccount, schema.UpdateAccount]{
			name: "accounts", singular: "account", columns: view.AccountColumns,
			collection: (*hooks.Hooks).Accounts,
		}),
		newResourceCmd(a, resourceDef[model.AccountType, schema.CreateAccountType, schema.UpdateAccountType]{
			name: "account-types", singular: "account type", columns: view.AccountTypeColumns,
			collection: (*hooks.Hooks).AccountTypes,
		}),
		newResourceCmd(a, resourceDef[model.Currency, schema.CreateCurrency, schema.UpdateCurrency]{
			name: "currency", singular: "currency", columns: view.CurrencyColumns,
			collection: (*hooks.Hooks).Currencies,
		}),
		newResourceCmd(a, resourceDef[model.Appointment, schema.CreateAppointment, schema.UpdateAppointment]{
			name: "appointments", singular: "appointment", columns: view.AppointmentColumns,
			collection: (*hooks.Hooks).Appointments,
			extra:      []func(*app) *cobra.Command{newAppointmentStatusCmd},
		}),
		newFilesCmd(a),
		newWatchCmd(a),
		newDoctorCmd(a),
	)
	return root
}
