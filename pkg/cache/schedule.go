package cache

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleRefresh runs a manual refresh of coord on the cron spec, keeping
// the snapshot fresh even when no requests arrive.
func ScheduleRefresh(c *cron.Cron, spec string, coord *Coordinator, timeout time.Duration) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Failures are logged and counted by Refresh.
		_, _ = coord.Refresh(ctx)
	})
}
