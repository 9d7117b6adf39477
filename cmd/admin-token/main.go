package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playmatatu/flickfog/internal/admin"
)

// Prints the bcrypt hash to set as ADMIN_TOKEN_HASH for the token in
// ADMIN_TOKEN (or the first argument).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if len(os.Args) > 1 {
		adminToken = os.Args[1]
	}
	if adminToken == "" {
		log.Fatal("Set ADMIN_TOKEN or pass the token as the first argument")
	}

	hash, err := admin.HashAdminToken(adminToken)
	if err != nil {
		log.Fatalf("Failed to hash admin token: %v", err)
	}

	log.Println("✓ Admin token hashed. Add this to your environment:")
	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}
