package validator

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
)

// attachToolOutput adds the delv trace and the dnsviz probe and graph to report.
// The trace runs alongside the probe and graph.
// A failing tool leaves its field empty.
func (v *Validator) attachToolOutput(ctx context.Context, domain model.Domain, report *model.Report) {
	if v.tools == nil || !v.tools.Enabled() {
		return
	}

	var g multierror.Group

	g.Go(func() error {
		trace, err := v.tools.TraceChain(ctx, domain)
		if err != nil {
			return err
		}

		report.Delv = &trace

		return nil
	})

	g.Go(func() error {
		probe, err := v.tools.Probe(ctx, domain)
		if err != nil {
			return err
		}

		report.DnsvizProbe = &probe

		graph, err := v.tools.Graph(ctx, probe)
		if err != nil {
			return err
		}

		report.DnsvizGraph = &graph

		return nil
	})

	if err := g.Wait().ErrorOrNil(); err != nil {
		log.FromCtx(ctx).WithField("prefix", validatorLogger).Warnf("diagnostic tools failed: %v", err)
	}
}
