package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/salon-natuerelle/salon-api/internal/config"
	dbpkg "github.com/salon-natuerelle/salon-api/internal/db"
	"github.com/salon-natuerelle/salon-api/internal/logger"
	"github.com/salon-natuerelle/salon-api/internal/routes"
	"github.com/salon-natuerelle/salon-api/internal/seed"
)

func main() {

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Env)

	db := dbpkg.NewDB(cfg, log)

	if err := seed.Run(db, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server starting")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
