package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/config"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/database"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/jwt"
	applogger "github.com/22146025/lord-s-heart-educational-complex/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCHOOL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := sqlDB.PingContext(context.Background()); err != nil {
		logger.Fatal("database ping failed", zap.Error(err))
	}

	svc := service.NewService(repository.NewRepository(db), jwt.NewManager(&cfg.Auth), nil, logger)

	cli := commandLine{
		userSvc: svc.User,
		appSvc:  svc.Application,
		migrate: func() error { return database.RunMigrations(sqlDB, logger) },
		out:     os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		sqlDB.Close()
		os.Exit(1)
	}
}
