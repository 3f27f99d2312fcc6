package main

import (
	"flag"
	"log"
	"strings"

	"masha/config"
	"masha/database"
	"masha/middleware"
	"masha/router"
)

// @title Masha Status API
// @version 1.0
// @description Role-gated CRUD API for organizational status records with monthly color indicators
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path to an external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to an external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "v", false, "print version and exit (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("masha v1.0.0")
		return
	}

	// Built-in defaults, optionally overridden by an external file.
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// The command line wins over the config file.
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port set from command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("initializing database: %v", err)
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  masha status API is up")
	log.Printf("==========================================")
	log.Printf("  Swagger: http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:     http://localhost%s/api/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("starting server: %v", err)
	}
}
