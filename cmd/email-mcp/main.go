// Email MCP server exposes Gmail tools to an agent over stdio, routing
// outbound sends through a filesystem approval queue.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/aiemployee/email-mcp/internal/approval"
	"github.com/aiemployee/email-mcp/internal/auth"
	"github.com/aiemployee/email-mcp/internal/gservice"
	"github.com/aiemployee/email-mcp/internal/rpc"
	"github.com/aiemployee/email-mcp/internal/tool"
)

func main() {
	oauthTokenFile := flag.String("oauth-token-file", "./data/email-mcp-token.json", "Path to cached google oauth token")
	envFileParam := flag.String("env-file", "", "Path to env file")
	vaultDir := flag.String("vault-dir", "./vault", "Base directory for the approval queue")
	dryRun := flag.Bool("dry-run", false, "Suppress real Gmail sends and return synthetic results")
	logFile := flag.String("log-file", "", "Path to log file (defaults to <vault-dir>/Logs/email-mcp.log; stdout carries protocol frames)")

	flag.Parse()

	loadEnvFile(envFileParam)

	logger, persistLogs := setupLogger(*vaultDir, *logFile)
	defer persistLogs()

	if os.Getenv("DRY_RUN") == "true" {
		*dryRun = true
	}

	config := mustCreateOauthCfg()

	if oauthTokenFile == nil || *oauthTokenFile == "" {
		panic("-oauth-token-file must be provided")
	}
	tok, err := auth.NewToken(*oauthTokenFile)
	if err != nil {
		panic(fmt.Errorf("auth.NewToken failed: %w", err))
	}

	// Serving without a session is the one unrecoverable condition: the
	// token must exist before startup, acquired by the external auth step.
	if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
		panic(fmt.Errorf("no Gmail session in %s, authenticate out of band first: %w", *oauthTokenFile, err))
	}

	defer func() {
		logger.Info("persisting token")
		if err := tok.Persist(); err != nil {
			logger.Error("tok.Persist failed", "error", err)
		}
	}()

	queue := approval.NewQueue(*vaultDir)
	if err := queue.EnsureDirs(); err != nil {
		panic(fmt.Errorf("queue.EnsureDirs failed: %w", err))
	}

	gmailSvc := gservice.NewGmail(config, tok)

	registry, err := tool.NewToolSet(gmailSvc, queue, *dryRun, logger)
	if err != nil {
		panic(fmt.Errorf("tool.NewToolSet failed: %w", err))
	}

	handler := rpc.NewHandler(registry, os.Stdout, logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("email MCP server ready", "dryRun", *dryRun, "pendingDir", queue.PendingDir())

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := handler.Serve(ctx, os.Stdin); err != nil {
			errCh <- fmt.Errorf("handler.Serve failed: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("stdio serve error", "error", err)
		} else {
			logger.Info("stdin closed, shutting down")
		}
	case <-shutdown:
		logger.Info("shutdown signal received")
	}
}

func loadEnvFile(envFileParam *string) {
	if envFileParam != nil && *envFileParam != "" {
		if err := godotenv.Load(*envFileParam); err != nil {
			panic(fmt.Errorf("godotenv.Load failed: %w", err))
		}
	}
}

func mustCreateOauthCfg() *oauth2.Config {
	oauthClientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	oauthClientSec := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if oauthClientID == "" || oauthClientSec == "" {
		panic("Env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	return &oauth2.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSec,
		Scopes: []string{
			gmail.GmailSendScope,
			gmail.GmailComposeScope,
			gmail.GmailReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// setupLogger routes logs to stderr plus an append-only file; stdout is
// reserved for protocol frames.
func setupLogger(vaultDir, logFile string) (*slog.Logger, func()) {
	if logFile == "" {
		logFile = filepath.Join(vaultDir, "Logs", "email-mcp.log")
	}

	sink := io.Writer(os.Stderr)
	closeFile := func() {}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			sink = io.MultiWriter(os.Stderr, f)
			closeFile = func() {
				if err := f.Close(); err != nil {
					fmt.Fprintln(os.Stderr, fmt.Errorf("f.Close failed: %w", err))
				}
			}
		} else {
			fmt.Fprintln(os.Stderr, fmt.Errorf("log file open failed, logging to stderr only: %w", err))
		}
	} else {
		fmt.Fprintln(os.Stderr, fmt.Errorf("log dir create failed, logging to stderr only: %w", err))
	}

	logger := slog.New(slog.NewTextHandler(sink, nil))
	slog.SetDefault(logger)

	return logger, closeFile
}
