package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"stridecoach/internal/auth"
	"stridecoach/internal/config"
	"stridecoach/internal/fitimport"
	"stridecoach/internal/service"
	"stridecoach/internal/store"
	"stridecoach/internal/strava"
	"stridecoach/internal/tui"
)

func main() {
	importPath := flag.String("import-fit", "", "import .fit files from a file or directory and exit")
	flag.Parse()

	if err := run(*importPath); err != nil {
		log.Fatal(err)
	}
}

func run(importPath string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.Dir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.Dir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Standalone .fit import, no Strava connection needed
	if importPath != "" {
		return importFit(db, importPath)
	}

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Token source with auto-refresh, persisting new tokens
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
	}

	// Create services
	stravaClient := strava.NewClient(tokenSource)
	syncSvc := service.NewSyncService(stravaClient, db)
	querySvc := service.NewQueryService(db)
	planSvc := service.NewPlanService(db)

	// Launch TUI
	app := tui.NewApp(db, cfg, syncSvc, querySvc, planSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func importFit(db *store.DB, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking import path: %w", err)
	}

	var result *fitimport.Result
	if info.IsDir() {
		result, err = fitimport.ImportDir(db, path)
	} else {
		result, err = fitimport.ImportFile(db, path)
	}
	if err != nil {
		return fmt.Errorf("importing .fit files: %w", err)
	}

	fmt.Printf("Scanned %d files: %d imported, %d skipped\n",
		result.Files, result.Imported, result.Skipped)
	return nil
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}
