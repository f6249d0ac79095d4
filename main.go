package main

import (
	"embed"
	"os"

	_ "github.com/AdamDubois/home-serveur/jobs"
	"github.com/AdamDubois/home-serveur/lib"
	_ "github.com/AdamDubois/home-serveur/migrations"

	"github.com/joho/godotenv"
)

//go:embed views assets migrations
var FS embed.FS

func main() {
	if !lib.IsProduction() && os.Getenv("SECRET") == "" {
		os.Setenv("SECRET", "8c3f1b0a6f4e2d9c7b5a3e1d8f6c4b2a0e9d7c5b3a1f8e6d4c2b0a9e7d5c3b1a")
	}
	godotenv.Overload()
	lib.SecretsLoad(os.Getenv("SECRET"), secrets[lib.Env("ENV", "development")])
	if os.Getenv("SESSION_SECRET_KEY") == "" {
		if lib.IsProduction() {
			panic("SESSION_SECRET_KEY is not set, refusing to sign session cookies with a known key")
		}
		os.Setenv("SESSION_SECRET_KEY", "dev-session-secret")
	}
	s := lib.NewServer(FS)
	setupRoutes(s)
	s.Queue.RunCliJob()
}
