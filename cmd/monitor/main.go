package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/app_config"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/engine"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/engine/modules"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/server"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/service"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils/dotenv"
	Flag "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/flag"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Configuration to customize binary startup.
var AppConfig app_config.MonitorAppConfig

// init() will always be called on before the execution of main function.
func init() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
}

func main() {
	AppConfig = app_config.ParseMonitorAppConfig(*Flag.AppConfigPath)

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatalf("cannot connect to database: %v", err)
	}
	utils.DatabaseSetupAndMigration(db)

	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)

	svc := service.NewPipelineService(db, eventbus, AppConfig)
	if err := svc.SeedDefaults(); err != nil {
		Log.Fatalf("seeding defaults failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	jobs := []*modules.ScheduledJob{
		modules.NewScheduledJob("ingestion",
			modules.Routinely(time.Duration(AppConfig.FETCH_EVERY_HOURS)*time.Hour, true),
			func(ctx context.Context) error {
				_, err := svc.TriggerFetchNow(ctx)
				return err
			}),
		modules.NewScheduledJob("event_pass",
			modules.Routinely(time.Duration(AppConfig.EVENT_PASS_EVERY_HOURS)*time.Hour, false),
			func(ctx context.Context) error {
				_, _, err := svc.RunEventPass()
				return err
			}),
		modules.NewScheduledJob("retention_sweep",
			modules.Routinely(time.Duration(AppConfig.RETENTION_SWEEP_EVERY_HOURS)*time.Hour, false),
			func(ctx context.Context) error {
				_, err := svc.RetentionSweep()
				return err
			}),
		modules.NewScheduledJob("weekly_digest",
			modules.WeeklyAt(time.Weekday(AppConfig.DIGEST_WEEKDAY), AppConfig.DIGEST_HOUR),
			func(ctx context.Context) error {
				_, err := svc.BuildWeeklyDigest()
				return err
			}),
	}

	// Initialize all engine modules here.
	engineModules := []engine.Module{
		// Scheduler drives the recurring pipeline passes.
		modules.NewScheduler(modules.SchedulerConfig{Name: "scheduler"}, jobs),
		// CorrelationListener runs an event pass right after productive
		// ingestion passes.
		modules.NewCorrelationListener(
			modules.CorrelationListenerConfig{Name: "correlation_listener"}, svc, eventbus),
		// APIServer exposes the pipeline over HTTP.
		server.NewAPIServer(server.APIServerConfig{Name: "api_server", Addr: AppConfig.API_ADDR}, svc),
	}

	e := engine.NewEngine(engineModules, ctx, cancel, eventbus)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		Log.Infof("received signal %s, shutting down", sig)
		e.Shutdown()
	}()

	// blocking call.
	e.Run()

	Log.Infoln("engine stopped execution.")
}
