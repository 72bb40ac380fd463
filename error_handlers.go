package chanbench

import (
	"context"
	"os"

	lg "github.com/Andrej220/go-utils/zlog"
)

// reportFatal hands a fatal error to the configured handler.
//
// Every error in a run is an invariant violation: binding failures,
// broken channel peers and wrong outcomes are never retried.
// A nil error is ignored.
func (p *Pool) reportFatal(ctx context.Context, err error) {
	if err != nil {
		p.opts.OnFatal(ctx, err)
	}
}

func (b *Bench) reportFatal(ctx context.Context, err error) {
	if err != nil {
		b.opts.OnFatal(ctx, err)
	}
}

// exitOnFatal is the default fatal handler: it logs the error and
// terminates the process.
func exitOnFatal(ctx context.Context, err error) {
	lg.FromContext(ctx).Error("fatal", lg.Any("error", err))
	os.Exit(1)
}
