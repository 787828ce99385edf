package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-client/internal/config"
	applog "booking-client/internal/log"
	"booking-client/internal/metrics"
	"booking-client/internal/tokenstore"
)

func main() {
	global := flag.NewFlagSet("booking", flag.ExitOnError)
	cfgPath := global.String("config", env("CONFIG_PATH", "config.yaml"), "path to the YAML config")
	verbose := global.Bool("v", false, "write JSON logs to stderr")
	global.Usage = func() { usage(os.Stderr) }
	global.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *verbose {
		applog.SetOutput(os.Stderr)
	} else if p := os.Getenv("LOG_FILE"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
		applog.SetOutput(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := openTokens(ctx, cfg)
	if err != nil {
		log.Fatalf("token store: %v", err)
	}
	defer closeTokens()

	a := newApp(cfg, tokens, metrics.New(), os.Stdin, os.Stdout, os.Stderr)
	code := a.run(ctx, global.Args())
	if code != 0 {
		// os.Exit skips deferred calls
		stop()
		closeTokens()
		os.Exit(code)
	}
}

// openTokens picks the token store named in the config. The returned func
// releases it.
func openTokens(ctx context.Context, cfg config.Config) (tokenstore.Store, func(), error) {
	switch cfg.Token.Store {
	case "redis":
		rs := tokenstore.NewRedis(tokenstore.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rs.Ping(pctx); err != nil {
			rs.Close()
			return nil, nil, err
		}
		log.Printf("token store: redis %s", cfg.Redis.Address)
		return rs, func() { rs.Close() }, nil
	default:
		return tokenstore.NewFile(cfg.Token.Path), func() {}, nil
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: booking [-config FILE] [-v] <command> [flags]

commands:
  login     -email E -password P
  register  -name N -email E -password P
  logout
  dashboard
  list      [-filter all|upcoming|done] [-search Q]
  book      -service S -date YYYY-MM-DD -time HH:MM
  cancel    ID [-yes]
  admin     [-search Q]
  export    [-format xlsx|csv] [-dir D] [-search Q]
  profile
  shell     interactive session
`)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
