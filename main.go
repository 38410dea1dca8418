// main.go
//
// Entry point for the duel server. Loads .env, configures logging, builds the
// word bank, opens SQLite and applies migrations, then serves HTTP.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/httpserver"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	bank, err := words.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word bank")
	}

	db, err := openDB(getEnv("DB_PATH", "./data/wordduel.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	srv := httpserver.New(bank, store.NewSQLiteRecorder(db), db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordduel server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
