package main

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"

	"github.com/dbytex91/piratebay"
	"github.com/dbytex91/piratebay/internal/gateway"
)

type config struct {
	BaseURL        string        `env:"TPB_BASE_URL"`
	ListenAddr     string        `env:"LISTEN_ADDR" envDefault:":7000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	CacheSizeMB    int           `env:"CACHE_SIZE_MB" envDefault:"16"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	clientOpts := []piratebay.Option{
		piratebay.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, piratebay.WithBaseURL(cfg.BaseURL))
	}
	client := piratebay.New(clientOpts...)
	defer client.Close()

	app := fiber.New()
	app.Use(cors.New())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format:       "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat:   "15:04:05",
		TimeZone:     "Local",
		TimeInterval: 500 * time.Millisecond,
		Output:       os.Stdout,
	}))

	gw := gateway.New(client,
		gateway.WithCacheSize(cfg.CacheSizeMB*1024*1024),
		gateway.WithCacheTTL(cfg.CacheTTL),
	)
	gw.Register(app)

	log.Infof("Starting HTTP server on %s (upstream %s)", cfg.ListenAddr, client.BaseURL())
	log.Fatal(app.Listen(cfg.ListenAddr))
}
