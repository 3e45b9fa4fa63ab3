package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/depositkeeper/internal/client/metrics"
)

// Stats prints the gateway counters collected during this session.
func (a *App) Stats(_ context.Context) error {
	lines, err := metrics.Summarize(a.gatherer)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No requests yet")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
