// Package diagnostics implements the engine's optional diagnostic outputs:
// the occupancy heatmap, the collision/displacement statistics summary, the
// JSON config sidecar, the XLSX export, and the PDF run report. None of
// these change engine semantics; every function here is a pure read of
// state already exposed by *engine.Engine's accessors.
package diagnostics

import (
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// bestEffort retries write under a bounded exponential backoff and logs
// (never returns) a persistent failure. Diagnostic writes must not halt
// iteration.
func bestEffort(log *logrus.Logger, what string, write func() error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Second
	err := backoff.RetryNotify(write, b, func(err error, d time.Duration) {
		log.WithError(err).Warnf("%s: retrying in %v", what, d)
	})
	if err != nil {
		log.WithError(err).Warnf("%s: giving up", what)
	}
}
