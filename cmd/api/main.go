package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/kitty/internal/budget/store"
	"github.com/MrJamesThe3rd/kitty/internal/config"
	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
	goalStore "github.com/MrJamesThe3rd/kitty/internal/goal/store"
	kittyHttp "github.com/MrJamesThe3rd/kitty/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/kitty/internal/http/budget"
	goalHandler "github.com/MrJamesThe3rd/kitty/internal/http/goal"
	txHandler "github.com/MrJamesThe3rd/kitty/internal/http/transaction"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/kitty/internal/ledger/store"
	"github.com/MrJamesThe3rd/kitty/internal/notify"
	"github.com/MrJamesThe3rd/kitty/internal/notify/amqpnotify"
	userStore "github.com/MrJamesThe3rd/kitty/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var notifier ledger.Notifier = notify.NewLog()

	if cfg.AMQP.URL != "" {
		publisher, err := amqpnotify.New(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()

		notifier = publisher
	}

	var (
		ledgerService = ledger.NewService(userStore.New(db), ledgerStore.New(db), notifier, nil)
		budgetService = budget.NewService(budgetStore.New(db))
		goalService   = goal.NewService(goalStore.New(db))
	)

	var (
		transactionH = txHandler.NewHandler(ledgerService)
		budgetH      = budgetHandler.NewHandler(budgetService)
		goalH        = goalHandler.NewHandler(goalService)
	)

	router := kittyHttp.New(transactionH, budgetH, goalH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
