package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "tgm_calc/docs"
	"tgm_calc/internal/gamedata"
	"tgm_calc/internal/handlers"
	"tgm_calc/internal/logger"
	"tgm_calc/internal/ocr"
	"tgm_calc/internal/repository"
	"tgm_calc/internal/repository/db"
	"tgm_calc/internal/server"
	"tgm_calc/internal/service"
	"tgm_calc/internal/storage"

	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// @title        TGM Calculator API
// @version      1.0
// @description  Combat planner and activity API behind the TGM calculator pages.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	configErr := loadConfig()

	// init logger
	var logCfg logger.Config
	_ = viper.UnmarshalKey("log", &logCfg)
	log := logger.Get(logCfg)
	defer func() { _ = log.Sync() }()

	if configErr != nil {
		log.Fatalw("error reading config", "err", configErr)
	}

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStorage(ctx)
	if err != nil {
		log.Fatalw("failed to init storage", "err", err, "driver", viper.GetString("storage.driver"))
	}

	recognizer, err := openRecognizer(log)
	if err != nil {
		log.Fatalw("failed to init ocr", "err", err, "engines", ocr.Engines())
	}

	authCfg, err := authConfig(log)
	if err != nil {
		log.Fatalw("failed to init auth", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Auth:       authCfg,
		Storage:    store,
		Recognizer: recognizer,
		GameData:   gamedata.NewLoader(viper.GetString("gamedata.dir")),
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		MaxUploadBytes: viper.GetInt64("http.max_upload_bytes"),
		SecureCookies:  viper.GetBool("http.secure_cookies"),
		TokenTTL:       authCfg.TokenTTL,
	})

	// start HTTP server
	var srvCfg server.Config
	if err := viper.UnmarshalKey("http", &srvCfg); err != nil {
		log.Fatalw("invalid http config", "err", err)
	}
	srv := server.New(srvCfg)
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// TGM_AUTH_SIGNING_KEY overrides auth.signing_key, and so on
	viper.SetEnvPrefix("TGM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", "5000")
	viper.SetDefault("db.path", "app.db")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("log.format", logger.ConsoleFormat)
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("storage.driver", "local")
	viper.SetDefault("storage.local.base_path", "uploads")
	viper.SetDefault("ocr.engine", ocr.EngineTesseract)
	viper.SetDefault("gamedata.dir", "data/gamedata")
	viper.SetDefault("http.max_upload_bytes", 16<<20)

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// openStorage picks the upload backend named by storage.driver.
func openStorage(ctx context.Context) (storage.Storage, error) {
	switch driver := viper.GetString("storage.driver"); driver {
	case "local":
		var cfg storage.LocalConfig
		if err := viper.UnmarshalKey("storage.local", &cfg); err != nil {
			return nil, err
		}
		return storage.NewLocalStorage(cfg)
	case "s3":
		var cfg storage.S3Config
		if err := viper.UnmarshalKey("storage.s3", &cfg); err != nil {
			return nil, err
		}
		return storage.NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func openRecognizer(log *logger.Logger) (ocr.Recognizer, error) {
	var cfg ocr.Config
	if err := viper.UnmarshalKey("ocr", &cfg); err != nil {
		return nil, err
	}
	r, err := ocr.New(cfg)
	if err != nil {
		return nil, err
	}
	return ocr.NewBreakerRecognizer(r, log), nil
}

// authConfig reads auth.*. Without a signing key a random one is used, so
// sessions do not survive a restart.
func authConfig(log *logger.Logger) (service.AuthConfig, error) {
	// explicit gets so TGM_AUTH_* env vars apply
	cfg := service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
	}
	if cfg.SigningKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return cfg, err
		}
		cfg.SigningKey = hex.EncodeToString(key)
		log.Warnw("auth.signing_key not set; using a random key")
	}
	return cfg, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
