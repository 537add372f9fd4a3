package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/livepad/internal/clipboard"
	"github.com/ziadkadry99/livepad/internal/importer"
	"github.com/ziadkadry99/livepad/internal/playground"
	"github.com/ziadkadry99/livepad/internal/preview"
	"github.com/ziadkadry99/livepad/internal/server"
	"github.com/ziadkadry99/livepad/internal/session"
	"github.com/ziadkadry99/livepad/internal/site"
)

var (
	servePort     int
	serveNoOpen   bool
	serveWatchDir string
	servePatterns map[string]string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playground server with live preview",
	Long: `Starts the playground on localhost: the editor page, the REST API and a
websocket that pushes every recomposed preview to the open pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, serveWatchDir, servePatterns)
	},
}

// runServer serves the playground until interrupted. When watchDir is set,
// files under it are imported first and then applied as edits whenever
// they change.
func runServer(cmd *cobra.Command, watchDir string, patterns map[string]string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *preview.Hub
	a, err := openApp(ctx, func(a *app, opts *session.Options) {
		hub = preview.NewHub(a.log)
		opts.Debounce = a.cfg.Debounce()
		opts.Target = hub
		opts.View = hub
		opts.Notifier = hub
		opts.Clipboard = clipboard.System{}
	})
	if err != nil {
		return err
	}
	defer a.Close()
	defer hub.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	source, err := site.NewSourceRenderer()
	if err != nil {
		return err
	}
	index, err := site.NewIndexPage(a.cfg.ExportName, int64(a.cfg.NoticeMS))
	if err != nil {
		return err
	}

	srv := server.New(server.Config{Port: port, AllowAll: a.cfg.AllowAllOrigins}, a.log)
	playground.RegisterRoutes(srv.Router(), playground.Deps{
		Session:    a.session,
		Hub:        hub,
		Detached:   preview.NewDetached(preview.DefaultDetachedTTL),
		Source:     source,
		Index:      index,
		ExportName: a.cfg.ExportName,
	})

	if watchDir != "" {
		p, err := importPatterns(a.cfg, patterns)
		if err != nil {
			return err
		}
		if _, err := importer.Load(ctx, watchDir, p, a.session); err != nil {
			return err
		}
		w, err := importer.NewWatcher(watchDir, p, a.session, a.log)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		defer w.Stop()
	}

	fmt.Fprintf(os.Stderr, "livepad %s serving %s\n", Version, srv.URL())
	fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
	if watchDir != "" {
		fmt.Fprintf(os.Stderr, "  Watching: %s\n", watchDir)
	}

	if a.cfg.OpenBrowser && !serveNoOpen {
		go func() {
			if err := site.OpenBrowser(srv.URL()); err != nil {
				a.log.Debug("open browser", zap.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open the browser")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "Directory whose files drive the editors")
	serveCmd.Flags().StringToStringVar(&servePatterns, "pattern", nil, "Glob per fragment, e.g. --pattern html=demo/*.html")
	rootCmd.AddCommand(serveCmd)
}
