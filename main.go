package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/unit"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/livechart/backend"
	"git.sr.ht/~whereswaldon/livechart/logging"
	"git.sr.ht/~whereswaldon/livechart/metrics"
	"git.sr.ht/~whereswaldon/livechart/supervisor"
)

const defaultTitle = "livechart"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "livechart [flags] FILE...",
		Short: "Plot delimited files live as they are appended to",
		Long: `livechart draws one line per selected field of every FILE and keeps the
chart current while the files grow. Truncated or rotated files are re-read
from the start.

Every flag may also be set in the YAML file named by --config or through a
LIVECHART_ environment variable (LIVECHART_Y_FIELDS=1,2).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	bindFlags(cmd.Flags())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// run starts ingestion and the window. It only returns on a startup error;
// afterwards the process exits when the window is closed.
func run(cfg Config) error {
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.Component("main")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	monitor := backend.NewMonitor(ctx)
	registry := backend.NewRegistry(cfg.Chart())
	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	for _, path := range cfg.Files {
		src, err := backend.NewFileSource(path, cfg.Chart().Separator, sourceOptions(cfg, monitor)...)
		if err != nil {
			return fmt.Errorf("failed loading %s: %w", path, err)
		}
		registry.Register(src)
		tree.AddIngest(src.Tailer())
		log.Debug().Str("source", src.Path()).Msg("tailing")
	}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddService(supervisor.NewHTTPService(server, 5*time.Second))
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	treeErr := tree.ServeBackground(ctx)

	title := cfg.Title
	if title == "" {
		title = defaultTitle
	}
	w := app.NewWindow(
		app.Title(title),
		app.Size(unit.Dp(cfg.Width), unit.Dp(cfg.Height)),
	)
	ui := NewUI(ctx, w, registry, monitor, title)
	go tick(ctx, w)
	go func() {
		<-ctx.Done()
		w.Perform(system.ActionClose)
	}()
	go func() {
		err := loop(w, ui)
		cancel()
		<-treeErr
		if err != nil {
			log.Fatal().Err(err).Msg("window closed with error")
		}
		os.Exit(0)
	}()
	log.Info().Int("sources", registry.Len()).Msg("started")
	app.Main()
	return nil
}
