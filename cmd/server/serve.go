package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"farmhelp/pkg/scheduler"
	"farmhelp/router"

	healthCtrlImp "farmhelp/pkg/health/controllerImp"
	priceCtrlImp "farmhelp/pkg/price/controllerImp"
	refreshCtrlImp "farmhelp/pkg/refresh/controllerImp"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the refresh schedule when REFRESH_CRON is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sched := scheduler.New(a.refresh, a.cfg.RefreshCommodities)
			if err := sched.Start(a.cfg.RefreshCron); err != nil {
				return err
			}
			defer func() { <-sched.Stop().Done() }()

			e := echo.New()
			e.HideBanner = true
			r := router.New(
				e,
				priceCtrlImp.New(a.prices, a.im),
				refreshCtrlImp.New(a.refresh),
				healthCtrlImp.NewHealthCtrl(a.db, a.feed, a.tables),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Printf("listening on :%s", a.cfg.Port)
				errc <- r.Start(":" + a.cfg.Port)
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Printf("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return r.Shutdown(sctx)
		},
	}
}
