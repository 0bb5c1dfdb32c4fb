package main

import (
	"context"
	"log/slog"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
	"github.com/robfig/cron/v3"
)

// startShapesSync optionally prewarms the shapes cache and starts the
// scheduled refresh.
func startShapesSync(loader *shapes.Loader) error {
	if len(base.SyncSchedule) > 0 {
		c := cron.New()
		if _, err := c.AddFunc(base.SyncSchedule, func() {
			loader.Refresh(context.Background())
		}); err != nil {
			return err
		}
		c.Start()
		slog.Info("started scheduled shapes refresh", "cron", base.SyncSchedule, "details", c.Entries())
	}
	// fetch eagerly so the first validation does not pay the download
	if base.PrewarmShapes {
		loader.Refresh(context.Background())
	}
	return nil
}
