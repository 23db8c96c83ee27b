package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"melp-api/internal/auth"
	"melp-api/internal/config"
)

func main() {
	var (
		subject    = flag.String("sub", "operator", "Token subject")
		roles      = flag.String("roles", auth.RoleEditor, "Comma-separated list of roles")
		expiryMins = flag.Int("expiry", 0, "Token expiry in minutes (default: jwt_expiry from config)")
		secret     = flag.String("secret", "", "JWT secret (overrides MELP_JWT_SECRET)")
		issuer     = flag.String("issuer", "", "JWT issuer (overrides MELP_JWT_ISSUER)")
		audience   = flag.String("audience", "", "JWT audience (overrides MELP_JWT_AUDIENCE)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if *secret != "" {
		cfg.JWTSecret = *secret
	}
	if *issuer != "" {
		cfg.JWTIssuer = *issuer
	}
	if *audience != "" {
		cfg.JWTAudience = *audience
	}
	if *expiryMins > 0 {
		cfg.JWTExpiry = time.Duration(*expiryMins) * time.Minute
	}

	var roleList []string
	for _, role := range strings.Split(*roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roleList = append(roleList, role)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatalf("Invalid JWT configuration: %v", err)
	}

	token, err := jwtManager.GenerateToken(*subject, roleList)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("JWT Token generated successfully!\n\n")
	fmt.Printf("Subject: %s\n", *subject)
	fmt.Printf("Roles: %s\n", strings.Join(roleList, ", "))
	fmt.Printf("Expiry: %v\n", cfg.JWTExpiry)
	fmt.Printf("Issuer: %s\n", cfg.JWTIssuer)
	fmt.Printf("Audience: %s\n", cfg.JWTAudience)
	fmt.Printf("\nToken:\n%s\n\n", token)

	fmt.Printf("Usage example:\n")
	fmt.Printf("curl -X DELETE -H \"Authorization: Bearer %s\" http://localhost%s/restaurants/<id>\n", token, cfg.Addr)
}
