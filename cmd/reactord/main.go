// Command reactord runs the reactor master/worker-pool TCP server
// skeleton, with a built-in echo handler standing in for the
// application-level service, which is treated as an external
// collaborator to the reactor core.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/mehome/reactor"
)

func main() {
	app := &cli.App{
		Name:  "reactord",
		Usage: "multi-threaded, event-driven TCP reactor skeleton",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Value: "", Usage: "bind endpoint, host:port (default 0.0.0.0:888)"},
			&cli.IntFlag{Name: "backlog", Value: 0, Usage: "listen backlog / backend fd hint (default 1048576)"},
			&cli.IntFlag{Name: "workers", Value: -1, Usage: "worker-pool size; 0 runs a single exit-when-idle reactor"},
			&cli.IntFlag{Name: "idle-ceiling", Value: 0, Usage: "loop idle timeout ceiling in ms, stored in Config only; reactors always use 10"},
			&cli.StringFlag{Name: "log-level", Value: "", Usage: "trace,debug,info,warn,error (default info)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "reactord:", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	v := viper.New()
	if ctx.IsSet("listen") {
		v.Set("listen", ctx.String("listen"))
	}
	if ctx.IsSet("backlog") {
		v.Set("backlog", ctx.Int("backlog"))
	}
	if ctx.IsSet("workers") {
		v.Set("workers", ctx.Int("workers"))
	}
	if ctx.IsSet("idle-ceiling") {
		v.Set("idle_ceiling_ms", ctx.Int("idle-ceiling"))
	}
	if ctx.IsSet("log-level") {
		v.Set("log_level", ctx.String("log-level"))
	}

	cfg := reactor.LoadConfig(v)
	log := reactor.NewLogger(cfg.LogLevel)

	reactor.OnAccept = installEcho(log)

	var pool *reactor.WorkerPool
	if cfg.Workers > 0 {
		var err error
		pool, err = reactor.NewWorkerPool(cfg.Workers, cfg.Backlog, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to start worker pool")
			return err
		}
		log.Info().Int("workers", cfg.Workers).Msg("worker pool ready")
	}

	master, err := reactor.NewMaster(cfg.Listen, cfg.Backlog, pool, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start master")
		return err
	}
	log.Info().Str("listen", cfg.Listen).Msg("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		master.Shutdown()
	}()

	master.Run()
	log.Info().Msg("reactord exiting cleanly")
	return nil
}
