package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"plantcare/router"

	adviceCtrlImp "plantcare/pkg/advice/controllerImp"
	adviceSvcImp "plantcare/pkg/advice/serviceImp"
	eventsCtrlImp "plantcare/pkg/events/controllerImp"
	"plantcare/pkg/export"
	exportCtrlImp "plantcare/pkg/export/controllerImp"
	healthCtrlImp "plantcare/pkg/health/controllerImp"
	"plantcare/pkg/notify"
	plantCtrlImp "plantcare/pkg/plant/controllerImp"
	plantSvcImp "plantcare/pkg/plant/serviceImp"
	proxyCtrlImp "plantcare/pkg/proxy/controllerImp"
	settingsCtrlImp "plantcare/pkg/settings/controllerImp"
	settingsSvcImp "plantcare/pkg/settings/serviceImp"
	wateringCtrlImp "plantcare/pkg/watering/controllerImp"
	wateringSvcImp "plantcare/pkg/watering/serviceImp"
)

func serveCmd() *cobra.Command {
	var staticDir string
	var noReminders bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			plantSvc := plantSvcImp.NewPlantService(a.plants, a.now)
			wateringSvc := wateringSvcImp.NewWateringService(a.waterings, a.plants, a.log, a.now)
			adviceSvc := adviceSvcImp.NewAdviceService(a.plants, a.settings, a.advisor, a.fallbacks, a.log, a.now)
			settingsSvc := settingsSvcImp.NewSettingsService(a.settings)
			exporter := export.NewExporter(a.plants, a.waterings, a.now)

			e := router.New(echo.New(), router.Options{
				Log:             a.log,
				ClientToken:     a.cfg.ClientToken,
				ProxyRatePerMin: a.cfg.ProxyRatePerMin,
				CORSOrigins:     a.cfg.CORSOrigins,
				StaticDir:       staticDir,
			}, router.Controllers{
				Health:   healthCtrlImp.NewHealthCtrl(a.db, a.llmConfigured, a.hub.Len),
				Plants:   plantCtrlImp.New(plantSvc, a.log, a.cfg.Locale),
				Watering: wateringCtrlImp.New(wateringSvc, a.log),
				Advice:   adviceCtrlImp.New(adviceSvc, a.log),
				Settings: settingsCtrlImp.New(settingsSvc, a.log),
				Proxy:    proxyCtrlImp.New(a.proxy),
				Events:   eventsCtrlImp.New(a.hub),
				Export:   exportCtrlImp.New(exporter, a.log),
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info("listening", "port", a.cfg.Port, "llm_configured", a.llmConfigured)
				if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return e.Shutdown(shutdownCtx)
			})
			if !noReminders {
				sched := notify.NewScheduler(a.settings, a.plants, a.log, a.now, a.cfg.ReminderInterval,
					notify.NewHubNotifier(a.hub), notify.NewLogNotifier(a.log))
				g.Go(func() error { return sched.Run(gctx) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&staticDir, "static", "static", "directory with the built web UI")
	cmd.Flags().BoolVar(&noReminders, "no-reminders", false, "do not run the reminder scheduler")
	return cmd
}
