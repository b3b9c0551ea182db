package cmd

import (
	"context"
	"time"

	"github.com/frahmantamala/ontology-client/internal/auth"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and manage the stored session",
}

var (
	loginCreds    auth.LoginCredentials
	googleData    auth.GoogleAuthData
	telegramData  auth.TelegramAuthData
	telegramOpt   struct{ lastName, username, photoURL string }
	registration  auth.RegistrationData
	registerNames struct{ firstName, lastName string }
	resetRequest  auth.PasswordResetRequest
	passwordReset auth.PasswordReset
	verification  auth.EmailVerification
	resendEmail   string
	refreshSkew   time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with username and password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.Login(ctx, loginCreds)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.User)
		})
	},
}

var loginGoogleCmd = &cobra.Command{
	Use:   "login-google",
	Short: "Sign in with a Google identity token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.LoginWithGoogle(ctx, googleData)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.User)
		})
	},
}

var loginTelegramCmd = &cobra.Command{
	Use:   "login-telegram",
	Short: "Sign in with a Telegram login widget payload",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data := telegramData
		data.LastName = optionalFlag(cmd, "last-name", telegramOpt.lastName)
		data.Username = optionalFlag(cmd, "username", telegramOpt.username)
		data.PhotoURL = optionalFlag(cmd, "photo-url", telegramOpt.photoURL)

		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.LoginWithTelegram(ctx, data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.User)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data := registration
		data.FirstName = optionalFlag(cmd, "first-name", registerNames.firstName)
		data.LastName = optionalFlag(cmd, "last-name", registerNames.lastName)

		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.Register(ctx, data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.User)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			return app.Auth.Session.Logout(ctx)
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new token pair",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			if _, err := app.Auth.Session.Refresh(ctx); err != nil {
				return err
			}
			cmd.Println("tokens refreshed")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			session := app.Auth.Session
			if _, err := session.EnsureFresh(ctx, refreshSkew); err != nil {
				app.Logger.Warn("token refresh failed", "error", err)
			}
			resp, err := session.Check(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				User  auth.User   `json:"user"`
				Roles []auth.Role `json:"roles"`
			}{resp.User, session.Roles()})
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the stored session is still valid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			_, err := app.Auth.Session.Check(ctx)
			state := app.Auth.State.Snapshot()
			if err != nil {
				app.Logger.Debug("session check failed", "error", err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"authenticated": state.IsAuthenticated})
		})
	},
}

var requestResetCmd = &cobra.Command{
	Use:   "request-reset",
	Short: "Email a password reset link",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.RequestPasswordReset(ctx, resetRequest)
			return printMessage(cmd, resp, err)
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password using a reset token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.ResetPassword(ctx, passwordReset)
			return printMessage(cmd, resp, err)
		})
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm an email address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.VerifyEmail(ctx, verification)
			return printMessage(cmd, resp, err)
		})
	},
}

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification",
	Short: "Send the verification email again",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			resp, err := app.Auth.Session.ResendVerificationEmail(ctx, resendEmail)
			return printMessage(cmd, resp, err)
		})
	},
}

func printMessage(cmd *cobra.Command, resp auth.MessageResponse, err error) error {
	if err != nil {
		return err
	}
	cmd.Println(resp.Message)
	return nil
}

// optionalFlag is nil unless the flag was given, so unset fields go out as null.
func optionalFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func init() {
	loginCmd.Flags().StringVarP(&loginCreds.Username, "username", "u", "", "username or email")
	loginCmd.Flags().StringVarP(&loginCreds.Password, "password", "p", "", "password")

	loginGoogleCmd.Flags().StringVar(&googleData.IDToken, "id-token", "", "Google identity token")

	loginTelegramCmd.Flags().StringVar(&telegramData.ID, "id", "", "Telegram user id")
	loginTelegramCmd.Flags().StringVar(&telegramData.Hash, "hash", "", "payload signature")
	loginTelegramCmd.Flags().StringVar(&telegramData.AuthDate, "auth-date", "", "payload timestamp")
	loginTelegramCmd.Flags().StringVar(&telegramData.FirstName, "first-name", "", "first name")
	loginTelegramCmd.Flags().StringVar(&telegramOpt.lastName, "last-name", "", "last name")
	loginTelegramCmd.Flags().StringVar(&telegramOpt.username, "username", "", "Telegram username")
	loginTelegramCmd.Flags().StringVar(&telegramOpt.photoURL, "photo-url", "", "avatar URL")

	registerCmd.Flags().StringVarP(&registration.Username, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registration.Email, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&registration.Password, "password", "p", "", "password")
	registerCmd.Flags().StringVar(&registerNames.firstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&registerNames.lastName, "last-name", "", "last name")

	requestResetCmd.Flags().StringVarP(&resetRequest.Email, "email", "e", "", "account email")
	resetPasswordCmd.Flags().StringVar(&passwordReset.Token, "token", "", "reset token")
	resetPasswordCmd.Flags().StringVar(&passwordReset.NewPassword, "new-password", "", "new password")
	verifyEmailCmd.Flags().StringVar(&verification.Token, "token", "", "verification token")
	resendVerificationCmd.Flags().StringVarP(&resendEmail, "email", "e", "", "account email")

	whoamiCmd.Flags().DurationVar(&refreshSkew, "refresh-skew", time.Minute, "refresh tokens expiring within this window")

	authCmd.AddCommand(loginCmd, loginGoogleCmd, loginTelegramCmd, registerCmd, logoutCmd,
		refreshCmd, whoamiCmd, checkCmd, requestResetCmd, resetPasswordCmd, verifyEmailCmd,
		resendVerificationCmd)
}
