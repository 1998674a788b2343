// Command pantryrec 根据 pantry 中食材的过期时间推荐食谱。
//
// 默认进入交互模式；--serve 启动 HTTP 服务；--publish 把本地参考数据写入 Redis。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/api"
	"github.com/rushteam/pantryrec/config"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pkg/logger"
	"github.com/rushteam/pantryrec/present"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pantryrec: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("pantryrec", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	serve := fs.Bool("serve", false, "start the HTTP server instead of the interactive prompt")
	publishRef := fs.Bool("publish", false, "publish local reference data to the redis store and exit")
	fs.String("addr", "", "HTTP listen address (server.addr)")
	fs.String("log-level", "", "log level: debug, info, warn, error (log.level)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	_ = v.BindPFlag("server.addr", fs.Lookup("addr"))
	_ = v.BindPFlag("log.level", fs.Lookup("log-level"))

	s, err := config.LoadSettings(v, *configPath)
	if err != nil {
		return err
	}

	log := logger.New(s.Log.Level, s.Log.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *publishRef {
		return publish(ctx, s, log)
	}

	a, err := bootstrap(ctx, s, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if *serve {
		return serveHTTP(ctx, a)
	}
	return interactive(ctx, a, in, out)
}

func serveHTTP(ctx context.Context, a *app) error {
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(&api.Handler{
		Scorer:             a.recommender,
		Clusters:           a.resolver,
		DefaultGranularity: core.Granularity(a.settings.Recommend.Granularity),
		Logger:             a.logger,
	})
	srv := &http.Server{
		Addr:         a.settings.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.settings.Server.ReadTimeout,
		WriteTimeout: a.settings.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}

func interactive(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	p := present.NewPrompter(in, out)

	g, err := p.AskGranularity()
	if err != nil {
		return err
	}
	entries, err := p.ReadEntries()
	if err != nil {
		return err
	}

	res, err := a.recommender.Score(ctx, entries, g, time.Now())
	if err != nil {
		return err
	}
	for _, rj := range res.Rejected {
		fmt.Fprintf(out, "Ignored %q: %s\n", rj.Entry.Name, rj.Reason)
	}
	fmt.Fprintf(out, "Use first: %s\n", strings.Join(res.UseFirst, ", "))
	fmt.Fprintf(out, "Your pantry leans %s.\n", res.Cuisine)
	if len(res.Ranked) == 0 {
		fmt.Fprintln(out, "No recipes found for that cuisine group.")
		return nil
	}

	choice, err := present.Browse(res.Ranked, func(r core.RankedResult) (bool, error) {
		fmt.Fprintln(out)
		if err := present.Render(out, r); err != nil {
			return false, err
		}
		return p.AskYesNo("Would you like to cook this?")
	})
	if err != nil {
		return err
	}
	if choice == nil {
		fmt.Fprintln(out, "That's all the suggestions for today.")
		return nil
	}
	fmt.Fprintf(out, "Enjoy your %s!\n", choice.Recipe.Name)
	return nil
}
