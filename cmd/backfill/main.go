package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/maubinnav/maubinnav/internal/adapters/nats"
	"github.com/maubinnav/maubinnav/internal/adapters/postgres"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
	"github.com/maubinnav/maubinnav/internal/pkg/config"
	"github.com/maubinnav/maubinnav/internal/pkg/logging"
	"github.com/maubinnav/maubinnav/internal/workflows"
)

const serviceName = "maubin-backfill"

func main() {
	start := flag.Bool("start", false, "start a backfill run and wait for it instead of running the worker")
	roads := flag.String("roads", "", "comma-separated road IDs to recompute (default: all)")
	atomic := flag.Bool("atomic", false, "roll back every updated road if one store fails")
	dryRun := flag.Bool("dry-run", false, "compute lengths without storing them")
	flag.Parse()

	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(serviceName, cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporallog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if *start {
		input := workflows.BackfillInput{Atomic: *atomic, DryRun: *dryRun}
		for _, id := range strings.Split(*roads, ",") {
			if id = strings.TrimSpace(id); id != "" {
				input.RoadIDs = append(input.RoadIDs, id)
			}
		}
		startRun(c, cfg.Temporal.TaskQueue, input)
		return
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewRecordRepo(db)

	acts := &workflows.BackfillActivities{
		Source:     repo,
		Store:      repo,
		Normalizer: normalize.New(category.Default.Extend(cfg.Taxonomy.Extra)),
	}
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, change events disabled", "error", err)
	} else {
		defer pub.Close()
		acts.Events = pub
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.RoadLengthBackfillWorkflow)
	w.RegisterActivity(acts)

	slog.Info("backfill worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func startRun(c client.Client, taskQueue string, input workflows.BackfillInput) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "road-length-backfill-" + uuid.NewString(),
		TaskQueue: taskQueue,
	}, workflows.RoadLengthBackfillWorkflow, input)
	if err != nil {
		log.Fatalf("start workflow: %v", err)
	}
	slog.Info("backfill started", "workflow_id", run.GetID(), "run_id", run.GetRunID())

	var res workflows.BackfillResult
	if err := run.Get(ctx, &res); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}
	slog.Info("backfill finished",
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"no_geometry", res.NoGeometry,
		"failed", res.Failed,
	)
}
