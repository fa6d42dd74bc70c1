package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

var tokenColumn = view.Column[model.AuthResponse]{
	Title: "Token",
	Value: func(a model.AuthResponse) string { return a.Token },
}

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and inspect the current session",
	}
	cmd.AddCommand(
		newSignInCmd(a),
		newSignUpCmd(a),
		newVerifyCmd(a),
		newResendCmd(a),
		newStatusCmd(a),
		newSignOutCmd(a),
	)
	return cmd
}

func newSignInCmd(a *app) *cobra.Command {
	var in schema.SignIn
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and print the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.hooks.SignIn().Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printSession(a, out)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	return cmd
}

func newSignUpCmd(a *app) *cobra.Command {
	var in schema.SignUp
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register an account; a verification code is mailed to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.hooks.SignUp().Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			msg := out.Message
			if msg == "" {
				msg = fmt.Sprintf("verification code sent to %s.", in.Email)
			}
			return a.out.Message(msg)
		},
	}
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (6-50 chars, upper, lower and digit)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number (optional)")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var in schema.VerifyEmailCode
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm the emailed code and print the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.hooks.VerifyEmailCode().Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printSession(a, out)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Code, "code", "", "6-digit code from the email")
	return cmd
}

func newResendCmd(a *app) *cobra.Command {
	var in schema.ResendEmailCode
	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.hooks.ResendEmailCode().Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			msg := out.Message
			if msg == "" {
				msg = fmt.Sprintf("a new code was sent to %s.", in.Email)
			}
			return a.out.Message(msg)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the current token is still accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.hooks.CheckStatus().Fetch(cmd.Context())
			if res.Err != nil {
				return res.Err
			}
			return printSession(a, res.Data)
		},
	}
}

// newSignOutCmd drops cached auth data here and, through the bus, in other
// consoles. The token itself lives in the caller's environment.
func newSignOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the session and its cached status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.api.SignOut()
			if err := a.queries.Invalidate(cmd.Context(), query.K("auth")); err != nil {
				return err
			}
			return a.out.Message("signed out. Unset BOOKING_TOKEN to stop sending the old token.")
		},
	}
}

// printSession shows who is signed in, when the token expires and the token
// itself, so it can be exported as BOOKING_TOKEN.
func printSession(a *app, session model.AuthResponse) error {
	cols := append([]view.Column[model.AuthResponse]{}, view.SessionColumns...)
	if claims, err := a.api.Session(); err == nil {
		id := claims.Identity()
		cols = append([]view.Column[model.AuthResponse]{{
			Title: "ID",
			Value: func(model.AuthResponse) string { return id },
		}}, cols...)
		if claims.ExpiresAt != nil {
			expires := claims.ExpiresAt.Time
			cols = append(cols, view.Column[model.AuthResponse]{
				Title: "Expires",
				Value: func(model.AuthResponse) string { return expires.Local().Format(time.RFC1123) },
			})
		}
	}
	cols = append(cols, tokenColumn)
	return view.Record(a.out, cols, session)
}
