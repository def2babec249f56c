package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"cpaptracker-service/internal/infrastructure/config"
	"cpaptracker-service/internal/infrastructure/oauth"
	"cpaptracker-service/pkg/logger"

	"github.com/google/uuid"
)

// Prints a Gmail refresh token with the send scope for GMAIL_REFRESH_TOKEN.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" {
		log.Fatal("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
	}

	gmailOAuth := oauth.NewGmailOAuth(oauth.Credentials{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		RedirectURL:  cfg.GmailRedirectURL,
	}, logger.NewLogger(cfg.LogLevel))

	addr, callbackPath, err := gmailOAuth.CallbackListener()
	if err != nil {
		log.Fatalf("GMAIL_REDIRECT_URL: %v", err)
	}

	// Create a random state
	state := uuid.NewString()

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		// Check state parameter
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the authorization code for a token
		token, err := gmailOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// Print the refresh token
		fmt.Printf("\nGMAIL_REFRESH_TOKEN=%s\n\n", token.RefreshToken)

		// Respond to the user
		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	fmt.Printf("Open this URL in your browser:\n%s\n", gmailOAuth.GenerateAuthURL(state))

	log.Fatal(http.ListenAndServe(addr, nil))
}
