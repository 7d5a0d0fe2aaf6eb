package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	cfg       Config
	jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)
)

func main() {
	// Load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()
	cfg = loadConfig()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Support a lightweight migrate command: `./dally migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration completed")
		return
	}

	initDB()
	initRedis()
	mailer = newMailerFromConfig(cfg)

	r := newRouter()

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// newRouter builds the gin engine with middleware and all routes attached.
func newRouter() *gin.Engine {
	r := gin.Default()
	if len(cfg.CORSOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = cfg.CORSOrigins
		cc.AllowCredentials = true
		cc.AddAllowHeaders("Authorization")
		r.Use(cors.New(cc))
	}
	setupRoutes(r)
	return r
}
