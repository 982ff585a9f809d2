// Command issue-token mints a bearer token for the report endpoints using
// the AUTH_SECRET the server is configured with.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"salonretail/backend/internal/config"
	"salonretail/backend/internal/httpapi"
)

func main() {
	subject := flag.String("subject", "", "token subject, usually the operator email")
	role := flag.String("role", httpapi.RoleManager, "role claim: admin or manager")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: .env not loaded: %v", err)
	}

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("AUTH_SECRET is not set")
	}

	token, err := httpapi.NewAuthManager(cfg.AuthSecret).IssueToken(*subject, *role, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
