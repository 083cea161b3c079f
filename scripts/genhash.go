package main

import (
	"fmt"
	"os"

	"go-jobboard-backend/config"
	"go-jobboard-backend/pkg/credential"
)

// Prints the stored form of each password argument, for seeding accounts by hand.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./scripts <password>...")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	hasher := credential.NewHasher(cfg.HashSecret,
		credential.ParamsFrom(cfg.Argon2Time, cfg.Argon2MemoryKiB, cfg.Argon2Threads, cfg.Argon2KeyLen))

	for _, pass := range os.Args[1:] {
		hash, err := hasher.Hash(pass)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	}
}
