package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/outreach"
)

var (
	loginToken  string
	loginListen string
	loginWait   time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login gmail|outlook",
	Short: "Sign in with a Gmail or Outlook account",
	Long: `Sign in via the backend's OAuth flow.

The provider login URL is printed; open it in a browser and complete the
consent screen. The backend redirects back with a session token. By default
a loopback listener captures the redirect automatically; pass the token by
hand with --token if the browser runs on another machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Verify the session and show the signed-in profile",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "",
		"Session token obtained out of band (skips the listener)")
	loginCmd.Flags().StringVar(&loginListen, "listen", "127.0.0.1:8377",
		"Loopback address for the OAuth redirect listener")
	loginCmd.Flags().DurationVar(&loginWait, "wait", 5*time.Minute,
		"How long to wait for the OAuth redirect")
}

func runLogin(cmd *cobra.Command, args []string) error {
	provider := outreach.Provider(args[0])
	if !provider.Valid() {
		return fmt.Errorf("unknown provider %q (want gmail or outlook)",
			args[0])
	}

	sess, err := getSession()
	if err != nil {
		return err
	}
	client := getClient(sess)

	// Out-of-band token paste: store it and verify immediately.
	if loginToken != "" {
		if err := sess.SetToken(loginToken); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		return verifyLogin(cmd.Context())
	}

	fmt.Println("Open this URL in your browser to sign in:")
	fmt.Println()
	fmt.Printf("  %s\n", client.OAuthURL(string(provider)))
	fmt.Println()
	fmt.Printf("Waiting for the OAuth redirect on http://%s/auth/callback "+
		"(set redirect there, or rerun with --token)...\n", loginListen)

	token, err := awaitCallbackToken(cmd.Context(), loginListen, loginWait)
	if err != nil {
		return err
	}

	if err := sess.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	return verifyLogin(cmd.Context())
}

// awaitCallbackToken runs a loopback HTTP server until the OAuth redirect
// delivers a token query parameter, the wait expires, or ctx is canceled.
func awaitCallbackToken(ctx context.Context, addr string,
	wait time.Duration) (string, error) {

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	tokenCh := make(chan string, 1)

	router := mux.NewRouter()
	router.HandleFunc("/auth/callback",
		func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, "missing token parameter",
					http.StatusBadRequest)
				return
			}

			fmt.Fprintln(w, "Signed in. You can close this tab "+
				"and return to the terminal.")

			select {
			case tokenCh <- token:
			default:
			}
		},
	).Methods(http.MethodGet)

	srv := &http.Server{Handler: router}
	go func() {
		// Serve returns ErrServerClosed on Shutdown; any other error
		// just leaves the caller to hit the timeout.
		_ = srv.Serve(listener)
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), time.Second,
		)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case token := <-tokenCh:
		return token, nil
	case <-time.After(wait):
		return "", errors.New("timed out waiting for the OAuth redirect")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// verifyLogin runs the guard against the freshly stored token and reports
// the signed-in profile.
func verifyLogin(ctx context.Context) error {
	_, profile, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", profile.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	sess, err := getSession()
	if err != nil {
		return err
	}

	if err := sess.Logout(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	_, profile, err := requireAuth(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(profile)
	}

	fmt.Printf("Email:        %s\n", profile.Email)
	fmt.Printf("Gmail scope:  %t\n", profile.HasGmailScope)
	fmt.Printf("Sheets scope: %t\n", profile.HasSheetsScope)
	fmt.Printf("Outlook:      %t\n", profile.HasOutlook)
	fmt.Printf("Admin:        %t\n", profile.IsAdmin)

	return nil
}
