package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dipos-tr/zetachat/internal/api"
	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/kb"
	"github.com/dipos-tr/zetachat/internal/llm"
	"github.com/dipos-tr/zetachat/internal/resolver"
	"github.com/dipos-tr/zetachat/internal/session"
	"github.com/dipos-tr/zetachat/internal/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "listen address")
	kbPath := flag.String("kb", "", "knowledge corpus file (overrides KNOWLEDGE_BASE_PATH)")
	dbPath := flag.String("db", "data/chat.db", "chat database file (overrides CHATDB_PATH)")
	flag.Parse()

	logger := common.Logger()

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Error("main: open chat database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	corpusPath := *kbPath
	if corpusPath == "" {
		corpusPath = kb.LoadConfig().Path
	}
	corpus := kb.NewStore(corpusPath)

	var backend llm.Backend
	if cfg, err := llm.LoadConfig(); err != nil {
		logger.Warn("main: generative backend disabled", "reason", err)
	} else if b, err := llm.NewOpenAIBackend(cfg); err != nil {
		logger.Warn("main: generative backend disabled", "reason", err)
	} else {
		backend = b
	}

	res := resolver.New(corpus, backend)
	sessions := session.NewService(store)
	srv, err := api.NewServer(res, sessions)
	if err != nil {
		logger.Error("main: build server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("main: listening", "addr", *addr, "corpus_entries", corpus.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("main: server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("main: shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("main: shutdown", "error", err)
	}
}
