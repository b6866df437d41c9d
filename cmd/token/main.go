// Command token issues a service token for the engine API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/middleware"
)

func main() {
	service := flag.String("service", "", "name of the calling service")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *service == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... token -service NAME [-ttl 720h]")
		os.Exit(2)
	}

	token, err := middleware.NewJWTService(secret).GenerateToken(*service, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
