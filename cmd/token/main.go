// Command token prints a bearer token for the data API.
//
//	JWT_SECRET=... go run ./cmd/token -sub dashboard -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"

	"finfetcher/internal/platform/config"
	jwtmw "finfetcher/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "", "client name stored as the token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TTL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *ttl <= 0 {
		*ttl = cfg.JWT.TTL
	}

	gen, err := jwtmw.NewGenerator(cfg.JWT.Secret, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tok, err := gen.GenerateToken(*sub)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
