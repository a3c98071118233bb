package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/game"
	"github.com/tilegrab/go-server/internal/httpserver"
	"github.com/tilegrab/go-server/internal/lexicon"
	"github.com/tilegrab/go-server/internal/notify"
	"github.com/tilegrab/go-server/internal/registry"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lex, err := lexicon.Open(os.Getenv("WORDS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	offset := game.DefaultScoreOffset
	if v := os.Getenv("SCORE_OFFSET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("value", v).Msg("invalid SCORE_OFFSET")
		}
		offset = n
	}

	reg := registry.New(lex, game.NewScorer(offset))
	srv := httpserver.New(reg, lex, notify.FromEnv())

	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Int("words", lex.Size()).Int("score_offset", offset).Msg("starting go-server")
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
