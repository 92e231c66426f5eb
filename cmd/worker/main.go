package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/edvin/launchpad/internal/activity"
	"github.com/edvin/launchpad/internal/config"
	"github.com/edvin/launchpad/internal/db"
	"github.com/edvin/launchpad/internal/logging"
	"github.com/edvin/launchpad/internal/metrics"
	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/provisioner"
	"github.com/edvin/launchpad/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg, "worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corePool, err := db.NewCorePool(ctx, cfg.CoreDatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to core database")
	}
	defer corePool.Close()
	metrics.RegisterPgxPoolMetrics(corePool)

	tlsConfig, err := cfg.TemporalTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure temporal TLS")
	}
	dialOpts := temporalclient.Options{HostPort: cfg.TemporalAddress}
	if tlsConfig != nil {
		dialOpts.ConnectionOptions = temporalclient.ConnectionOptions{TLS: tlsConfig}
		logger.Info().Msg("temporal mTLS enabled")
	}
	tc, err := temporalclient.Dial(dialOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, model.TaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{&workflow.ErrorTypingInterceptor{}},
	})

	databaseClient := provisioner.NewDatabaseClient(cfg.DatabaseAPIURL, cfg.DatabaseAPIKey)
	repositoryClient := provisioner.NewRepositoryClient(cfg.RepoAPIURL, cfg.RepoAPIToken, cfg.RepoTemplate)
	hostingClient := provisioner.NewHostingClient(cfg.HostingAPIURL, cfg.HostingAPIToken)
	voiceClient := provisioner.NewVoiceAgentClient(cfg.VoiceAPIURL, cfg.VoiceAPIKey)
	notifierClient := provisioner.NewNotifierClient(cfg.NotifierAPIURL, cfg.NotifierAPIKey, cfg.NotifierFrom)

	// Register activities
	w.RegisterActivity(activity.NewDatabase(databaseClient, cfg.VerifyPollInterval, cfg.VerifyBudget))
	w.RegisterActivity(activity.NewRepository(repositoryClient, cfg.VerifyPollInterval, cfg.VerifyBudget))
	w.RegisterActivity(activity.NewHosting(hostingClient, cfg.VerifyPollInterval, cfg.DeployBudget))
	w.RegisterActivity(activity.NewVoiceAgent(voiceClient, cfg.VerifyPollInterval, cfg.VerifyBudget))
	w.RegisterActivity(activity.NewNotify(notifierClient))
	w.RegisterActivity(activity.NewCleanup(databaseClient, repositoryClient, hostingClient, voiceClient))
	w.RegisterActivity(activity.NewRunRecord(db.NewRunStore(corePool)))
	w.RegisterActivity(activity.NewArchive(cfg.ArchiveEndpoint, cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, cfg.ArchiveBucket))

	// Register workflows
	w.RegisterWorkflow(workflow.ProvisionTenantWorkflow)

	if cfg.MetricsListenAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsListenAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", model.TaskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}
