package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/waylink/waylink/internal/auth"
	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/store"
)

type output struct {
	TokenID       string   `json:"token_id"`
	Token         string   `json:"token"`
	TokenPrefix   string   `json:"token_prefix"`
	ClientName    string   `json:"client_name"`
	Scopes        []string `json:"scopes"`
	RateLimitTier string   `json:"rate_limit_tier"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		clientName  = flag.String("client-name", "bootstrap", "Client name for the token")
		scopesInput = flag.String("scopes", "admin", "Comma-separated scopes (resolve,analytics,admin)")
		tier        = flag.String("tier", model.TierUnlimited, "Rate limit tier (default,internal,unlimited)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	scopes, err := parseScopes(*scopesInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if _, ok := model.TierConfigs[*tier]; !ok {
		fmt.Fprintln(os.Stderr, "invalid tier:", *tier)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer st.Close()

	generated, err := auth.GenerateToken(auth.EnvLive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}

	token := &model.ClientToken{
		ID:            ulid.Make().String(),
		ClientName:    *clientName,
		TokenHash:     generated.Hash,
		TokenPrefix:   generated.Prefix,
		Scopes:        scopes,
		RateLimitTier: *tier,
		CreatedAt:     time.Now().UTC(),
	}

	if err := st.CreateToken(ctx, token); err != nil {
		fmt.Fprintln(os.Stderr, "create token:", err)
		os.Exit(1)
	}

	out := output{
		TokenID:       token.ID,
		Token:         generated.Plaintext,
		TokenPrefix:   token.TokenPrefix,
		ClientName:    token.ClientName,
		Scopes:        scopes,
		RateLimitTier: token.RateLimitTier,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseScopes(input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return []string{model.ScopeAdmin}, nil
	}
	parts := strings.Split(input, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		if !slices.Contains(model.ValidScopes, scope) {
			return nil, fmt.Errorf("invalid scope: %s", scope)
		}
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		scopes = []string{model.ScopeAdmin}
	}
	return scopes, nil
}
