package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Spotify token",
	Long: `Commands for inspecting and removing the stored Spotify OAuth token.

Cue does not run the authorization flow itself. Place a token JSON file
(access_token, refresh_token, expiry) at the path shown by 'cue auth status';
cue refreshes it and writes refreshed tokens back.`,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth token from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows where the token lives, when it expires and which account it belongs to.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := tokenStorage()
	if err != nil {
		return err
	}

	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not authenticated with Spotify.")
		return nil
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := tokenStorage()
	if err != nil {
		return err
	}

	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{
				"authenticated": false,
				"token_path":    storage.Path(),
			})
		}
		fmt.Println("Not authenticated with Spotify.")
		fmt.Printf("Store a token at %s\n", storage.Path())
		return nil
	}

	expired := !token.Expiry.IsZero() && token.Expiry.Before(time.Now())
	canRefresh := token.RefreshToken != ""

	// Asking for the user also proves the token (or its refresh) works.
	var userID string
	var userErr error
	if cfg.Spotify.ClientID != "" {
		ctx := context.Background()
		gw, done, err := quickGateway(ctx)
		if err != nil {
			userErr = err
		} else {
			userID, userErr = gw.CurrentUserID(ctx)
			done()
		}
	}

	if JSONOutput() {
		out := map[string]interface{}{
			"authenticated": true,
			"token_path":    storage.Path(),
			"expired":       expired,
			"refreshable":   canRefresh,
			"expires_at":    token.Expiry,
		}
		if userID != "" {
			out["user_id"] = userID
		}
		if userErr != nil {
			out["error"] = userErr.Error()
		}
		return printJSON(out)
	}

	fmt.Printf("Token: %s\n", storage.Path())
	switch {
	case token.Expiry.IsZero():
		fmt.Println("Expires: unknown")
	case expired:
		fmt.Printf("Expired: %s", humanize.Time(token.Expiry))
		if canRefresh {
			fmt.Print(" (will refresh)")
		}
		fmt.Println()
	default:
		fmt.Printf("Expires: %s\n", humanize.Time(token.Expiry))
	}

	switch {
	case userID != "":
		fmt.Printf("Authenticated as: %s\n", userID)
	case userErr != nil:
		fmt.Printf("Token could not be used: %v\n", userErr)
	}
	return nil
}
