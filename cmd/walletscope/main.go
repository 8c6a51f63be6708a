// Package main is the walletscope command: track Polymarket wallets, refresh
// their performance analyses, and serve the analysis worker over WebSocket.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	walletscope "github.com/walletscope/walletscope-go"
	"github.com/walletscope/walletscope-go/pkg/logger"
	"github.com/walletscope/walletscope-go/pkg/store"
	"github.com/walletscope/walletscope-go/pkg/tracker"
	"github.com/walletscope/walletscope-go/pkg/worker"
)

const usageText = `Usage: walletscope [flags] <command> [args]

Commands:
  track <address>      start tracking a wallet
  untrack <address>    stop tracking a wallet
  list                 list tracked wallets
  refresh [address]    recompute stats for one wallet, or all when omitted
  stats <address>      print the analysis for a wallet (cached when fresh)
  ghost-on <address>   enable ghost copy-trading simulation
  ghost-off <address>  disable ghost copy-trading simulation
  ghost <address>      print the ghost portfolio for a wallet
  serve                run the refresh scheduler and WebSocket worker
`

func main() {
	_ = godotenv.Load()

	var (
		dbPath   = flag.String("db", defaultDBPath(), "SQLite database path")
		logLevel = flag.String("log-level", envOr("WALLETSCOPE_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
		pretty   = flag.Bool("pretty", false, "human-readable log output")
		addr     = flag.String("addr", envOr("WALLETSCOPE_ADDR", ":8787"), "serve listen address")
		cronSpec = flag.String("refresh-every", "", "cron spec for the serve refresh loop (default @every 6h)")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel, Pretty: *pretty})

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(args, *dbPath, *addr, *cronSpec, log); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("command failed")
	}
}

func run(args []string, dbPath, addr, cronSpec string, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(dbPath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	client := walletscope.NewClient(walletscope.WithConfig(walletscope.ConfigFromEnv()))
	svc := tracker.New(st, client.Data, client.Gamma, log)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "track":
		addr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		return svc.Track(ctx, addr)

	case "untrack":
		addr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		return svc.Untrack(ctx, addr)

	case "list":
		wallets, err := svc.Wallets(ctx)
		if err != nil {
			return err
		}
		return printJSON(wallets)

	case "refresh":
		if len(rest) == 0 {
			return svc.RefreshAll(ctx)
		}
		stats, err := svc.Refresh(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(stats)

	case "stats":
		addr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		stats, err := svc.Stats(ctx, addr)
		if err != nil {
			return err
		}
		return printJSON(stats)

	case "ghost-on":
		addr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		return svc.EnableGhostMode(ctx, addr)

	case "ghost-off":
		addr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		return svc.DisableGhostMode(ctx, addr)

	case "ghost":
		walletAddr, err := oneAddress(rest)
		if err != nil {
			return err
		}
		summary, err := svc.GhostSummary(ctx, walletAddr)
		if err != nil {
			return err
		}
		return printJSON(summary)

	case "serve":
		return serve(ctx, addr, cronSpec, st, svc, log)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func serve(ctx context.Context, addr, cronSpec string, st *store.Store, svc *tracker.Service, log zerolog.Logger) error {
	sched, err := tracker.NewScheduler(svc, cronSpec, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// Surface store changes in the serve log so operators can follow the
	// refresh loop without polling the database.
	go func() {
		for c := range st.Subscribe() {
			log.Info().Str("kind", string(c.Kind)).Str("wallet", c.Wallet).Msg("store changed")
		}
	}()

	w := worker.New(log)
	defer w.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", worker.NewHandler(w, worker.DefaultHandlerConfig(), log))
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func oneAddress(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected exactly one wallet address")
	}
	return args[0], nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func defaultDBPath() string {
	if v := os.Getenv("WALLETSCOPE_DB"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "walletscope.db"
	}
	return filepath.Join(home, ".walletscope", "walletscope.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
