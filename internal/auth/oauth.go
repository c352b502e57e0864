package auth

import (
	"golang.org/x/oauth2"
)

// Strava OAuth endpoints
const (
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Strava expects comma-separated scopes in a single value.
var Scopes = []string{
	"read,activity:read_all",
}

// Config holds the OAuth client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewOAuthConfig builds the oauth2 configuration for Strava.
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// Result carries the token and athlete identity from a completed flow.
type Result struct {
	Token     *oauth2.Token
	AthleteID int64
}

// ExtractAthleteID pulls the athlete ID out of the token response.
// Strava embeds an athlete object alongside the token fields.
func ExtractAthleteID(token *oauth2.Token) int64 {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return 0
	}
	id, ok := athlete["id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}
