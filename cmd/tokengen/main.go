package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/config"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/provision"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/tokengenerator"
)

// tokengen mints admin JWTs accepted by the server's /api/admin routes.
func main() {
	// Parse command line flags
	subject := flag.String("subject", "", "Subject of the token, usually the admin email (required)")
	role := flag.String("role", provision.RoleAdminSuper, "Role claim for the token")
	expiry := flag.Duration("expiry", 0, "Token expiry duration (default: JWT_TOKEN_EXPIRY)")
	extraClaimsJSON := flag.String("claims", "{}", "Extra claims in JSON format")
	outputFormat := flag.String("format", "compact", "Output format: compact, full, or debug")
	flag.Parse()

	if *subject == "" {
		fmt.Println("Error: subject is required")
		flag.Usage()
		os.Exit(1)
	}

	// Load the signing configuration from environment variables
	jwtConfig := config.JWTConfig{}
	cleanenv.ReadEnv(&jwtConfig)
	if *expiry == 0 {
		*expiry = jwtConfig.TokenExpiry
	}

	// Create the token generator
	tokenGen := tokengenerator.NewJwtTokenGenerator(jwtConfig.Secret, jwtConfig.Issuer, jwtConfig.Audience)

	// Parse extra claims
	var extraClaims map[string]interface{}
	if err := json.Unmarshal([]byte(*extraClaimsJSON), &extraClaims); err != nil {
		slog.Error("Failed to parse extra claims JSON", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to parse extra claims JSON: %v\n", err)
		os.Exit(1)
	}
	if extraClaims == nil {
		extraClaims = map[string]interface{}{}
	}
	extraClaims["email"] = *subject
	extraClaims["role"] = *role

	// Generate the token
	tokenStr, expiryTime, err := tokenGen.GenerateToken(*subject, *expiry, extraClaims)
	if err != nil {
		slog.Error("Failed to generate token", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	// Output the token based on format
	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "full":
		fmt.Printf("Token: %s\nExpires: %s\n", tokenStr, expiryTime.Format(time.RFC3339))
	case "debug":
		// Parse the token to display its contents
		token, err := tokenGen.ParseToken(tokenStr)
		if err != nil {
			slog.Error("Failed to parse generated token", "err", err)
			fmt.Fprintf(os.Stderr, "Error: Failed to parse generated token: %v\n", err)
			os.Exit(1)
		}

		// Get claims as map for easier display
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			slog.Error("Failed to get claims from token")
			fmt.Fprintf(os.Stderr, "Error: Failed to get claims from token\n")
			os.Exit(1)
		}

		// Format the output
		fmt.Printf("=== Token Information ===\n")
		fmt.Printf("Token: %s\n\n", tokenStr)
		fmt.Printf("=== Token Header ===\n")
		headerJSON, _ := json.MarshalIndent(token.Header, "", "  ")
		fmt.Printf("%s\n\n", headerJSON)
		fmt.Printf("=== Token Claims ===\n")
		claimsJSON, _ := json.MarshalIndent(claims, "", "  ")
		fmt.Printf("%s\n\n", claimsJSON)
		fmt.Printf("Expires: %s\n", expiryTime.Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
