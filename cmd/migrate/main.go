package main

import (
	"context"
	"flag"
	"time"

	"storefront/infra/postgres"
	"storefront/pkg/auth"
	"storefront/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	seedAdmin := flag.Bool("seed-admin", true, "create or update the administrator from ADMIN_EMAIL and ADMIN_PASSWORD")
	flag.Parse()

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	appConfig := config.Read()

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	defer pgRepository.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	applied, err := pgRepository.Migrate(ctx)
	if err != nil {
		zap.L().Fatal("Migration failed", zap.Error(err))
	}
	zap.L().Info("Schema applied", zap.Int("statements", applied))

	if !*seedAdmin {
		return
	}

	if appConfig.AdminEmail == "" || appConfig.AdminPassword == "" {
		zap.L().Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping administrator seed")
		return
	}

	hash, err := auth.HashPassword(appConfig.AdminPassword)
	if err != nil {
		zap.L().Fatal("Failed to hash administrator password", zap.Error(err))
	}

	if err := pgRepository.UpsertAdminUser(ctx, appConfig.AdminEmail, hash); err != nil {
		zap.L().Fatal("Failed to seed administrator", zap.Error(err))
	}

	zap.L().Info("Administrator seeded", zap.String("email", appConfig.AdminEmail))
}
