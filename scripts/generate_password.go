// scripts/generate_password.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/pkg/auth"
)

// Prints an ADMIN_PASSWORD_HASH line for seeding the reference backend's admin.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	passwords := auth.NewPasswordManager(cfg)
	hash, err := passwords.HashPassword(os.Args[1])
	if err != nil {
		log.Fatal("Error generating hash: ", err)
	}

	if err := passwords.VerifyPassword(os.Args[1], hash); err != nil {
		log.Fatal("Hash verification failed: ", err)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
}
