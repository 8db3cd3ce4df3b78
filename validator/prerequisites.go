package validator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/htools/sitecheck/model"
)

// Step names a prerequisite fetch
type Step string

const (
	StepCurrentHeight Step = "currentHeight"
	StepLatestUpdate  Step = "latestUpdate"
	StepAddressLookup Step = "addressLookup"
	StepTLSALookup    Step = "tlsaLookup"
)

// Message returns the user facing description of a failed step
func (s Step) Message() string {
	switch s {
	case StepCurrentHeight:
		return "Could not fetch current height"
	case StepLatestUpdate:
		return "Could not fetch latest record update. Are you sure this is a Handshake domain?"
	case StepAddressLookup:
		return "Could not query for A record."
	case StepTLSALookup:
		return "Could not query for TLSA record."
	}

	return fmt.Sprintf("Could not complete %s.", string(s))
}

// PrerequisiteError is returned if one of the prerequisite fetches failed
type PrerequisiteError struct {
	Step Step
	Err  error
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Step.Message(), e.Err)
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}

// fetchPrerequisites issues the four lookups concurrently. The first failure cancels the others.
func (v *Validator) fetchPrerequisites(ctx context.Context, domain model.Domain) (*Prerequisites, error) {
	var (
		height  int64
		update  model.Update
		address *model.Answer
		tlsa    *model.Answer
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		height, err = v.chain.CurrentHeight(gCtx)

		return wrapStep(StepCurrentHeight, err)
	})

	g.Go(func() (err error) {
		update, err = v.chain.LatestUpdate(gCtx, domain.TLD())

		return wrapStep(StepLatestUpdate, err)
	})

	g.Go(func() (err error) {
		address, err = v.resolver.LookupAddress(gCtx, domain)

		return wrapStep(StepAddressLookup, err)
	})

	g.Go(func() (err error) {
		tlsa, err = v.resolver.LookupTLSA(gCtx, domain)

		return wrapStep(StepTLSALookup, err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Prerequisites{
		Domain: domain,
		Chain: model.ChainState{
			CurrentHeight:      height,
			LatestUpdateHeight: update.Height,
			Resource:           update.Resource,
		},
		Resolution: model.ResolutionState{
			Address: address,
			TLSA:    tlsa,
		},
	}, nil
}

func wrapStep(step Step, err error) error {
	if err == nil {
		return nil
	}

	return &PrerequisiteError{Step: step, Err: err}
}
