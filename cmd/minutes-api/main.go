package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/auth"
	"github.com/galuhdigital/minutes/backend/internal/config"
	"github.com/galuhdigital/minutes/backend/internal/database"
	"github.com/galuhdigital/minutes/backend/internal/export"
	"github.com/galuhdigital/minutes/backend/internal/logging"
	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"github.com/galuhdigital/minutes/backend/internal/results"
	"github.com/galuhdigital/minutes/backend/internal/server"
	"github.com/galuhdigital/minutes/backend/internal/upload"
	"github.com/galuhdigital/minutes/backend/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "minutes-api",
		Short: "Meeting minutes administration backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("token.ttl_minutes"), "Session token TTL in minutes")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Session token signing secret (overrides env)")
	cmd.PersistentFlags().String("admin-username", "", "Admin account username (overrides env)")
	cmd.PersistentFlags().String("admin-password", "", "Admin account password (overrides env)")
	cmd.PersistentFlags().String("upload-dir", defaults.GetString("upload.directory"), "Directory for uploaded images")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "token.ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "auth.admin_username", "admin-username")
	bindFlag(cmd, "auth.admin_password", "admin-password")
	bindFlag(cmd, "upload.directory", "upload-dir")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	credentials, err := auth.NewCredentialVerifier(auth.CredentialVerifierConfig{
		Username:    appConfig.AdminUsername,
		Password:    appConfig.AdminPassword,
		DisplayName: appConfig.AdminName,
	})
	if err != nil {
		return err
	}

	tokenManager := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "minutes-auth",
		Audience:      "minutes-api",
		TokenTTL:      appConfig.TokenTTL,
	})

	accounts, err := users.NewService(users.ServiceConfig{
		Database: db,
		Clock:    time.Now,
	})
	if err != nil {
		return err
	}

	minutesService, err := minutes.NewService(minutes.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	resultsService, err := results.NewService(results.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	uploads, err := upload.NewService(upload.ServiceConfig{
		Directory: appConfig.UploadDir,
		PublicURL: appConfig.UploadURL,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	exporter := export.NewExporter(export.Config{
		Letterhead: export.Letterhead{
			OrgName:      appConfig.Letterhead.OrgName,
			AddressLines: appConfig.Letterhead.AddressLines,
			City:         appConfig.Letterhead.City,
			SignerName:   appConfig.Letterhead.SignerName,
			SignerRole:   appConfig.Letterhead.SignerRole,
			LogoPath:     appConfig.Letterhead.LogoPath,
		},
		Fetcher: export.NewHTTPFetcher(nil),
		Logger:  logger,
	})

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Credentials:    credentials,
		TokenManager:   tokenManager,
		Accounts:       accounts,
		MinutesService: minutesService,
		ResultsService: resultsService,
		Uploads:        uploads,
		Exporter:       exporter,
		RequireImages:  appConfig.RequireImages,
		UploadRoute:    appConfig.UploadURL,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
