package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	appMiddleware "github.com/FACorreiaa/go-heritage-routes/app/middleware"
	"github.com/FACorreiaa/go-heritage-routes/config"
)

var (
	subject = flag.String("sub", "operator", "token subject")
	ttl     = flag.Duration("ttl", time.Hour, "token lifetime")
)

// Prints a bearer token for the admin endpoints signed with jwt.secretKey.
func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	token, err := appMiddleware.IssueToken(cfg.JWT, *subject, appMiddleware.RoleAdmin, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
