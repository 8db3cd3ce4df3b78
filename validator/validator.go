package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/htools/sitecheck/evt"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
)

const validatorLogger = "validator"

// ErrMissingState is returned if a check runs without the prerequisite state it reads
var ErrMissingState = errors.New("prerequisite state missing")

// ChainGateway reads the on-chain state of names
type ChainGateway interface {
	CurrentHeight(ctx context.Context) (int64, error)
	LatestUpdate(ctx context.Context, label string) (model.Update, error)
}

// ResolverGateway queries a DNSSEC validating resolver
type ResolverGateway interface {
	LookupAddress(ctx context.Context, domain model.Domain) (*model.Answer, error)
	LookupTLSA(ctx context.Context, domain model.Domain) (*model.Answer, error)
}

// CertificateProber fetches the certificate served on an address
type CertificateProber interface {
	FetchLeafCertificate(ctx context.Context, address, serverName string) ([]byte, bool)
}

// ToolBridge runs the external DNSSEC diagnostic tools
type ToolBridge interface {
	Enabled() bool
	TraceChain(ctx context.Context, domain model.Domain) (string, error)
	Probe(ctx context.Context, domain model.Domain) (string, error)
	Graph(ctx context.Context, probe string) (string, error)
}

// Validator runs the diagnostic pipeline for a domain
type Validator struct {
	chain    ChainGateway
	resolver ResolverGateway
	prober   CertificateProber
	tools    ToolBridge
}

// New creates a validator. tools may be nil.
func New(chain ChainGateway, resolver ResolverGateway, prober CertificateProber, tools ToolBridge) *Validator {
	return &Validator{
		chain:    chain,
		resolver: resolver,
		prober:   prober,
		tools:    tools,
	}
}

// Prerequisites is the state every check reads. It is not modified after it was fetched.
type Prerequisites struct {
	Domain     model.Domain
	Chain      model.ChainState
	Resolution model.ResolutionState
}

// Validate runs all checks for domain and returns the complete report.
// It fails with a model.InputError for malformed input and with a PrerequisiteError
// if the state the checks depend on could not be fetched.
func (v *Validator) Validate(ctx context.Context, domain string) (*model.Report, error) {
	start := time.Now()

	ctx, logger := log.RunCtx(ctx, validatorLogger, uuid.NewString(), log.EscapeInput(domain))

	report, err := v.validate(ctx, logger, domain)

	outcome := outcomeOf(err)
	duration := time.Since(start)

	evt.Bus().Publish(evt.ValidationFinished, outcome, duration)

	logger = logger.WithFields(logrus.Fields{
		"outcome":     outcome,
		"duration_ms": duration.Milliseconds(),
	})

	if err != nil {
		logger.Warnf("validation failed: %v", err)

		return nil, err
	}

	logger.WithField("failed_checks", report.Failed()).Info("validation finished")

	return report, nil
}

func (v *Validator) validate(ctx context.Context, logger *logrus.Entry, input string) (*model.Report, error) {
	domain, err := model.ParseDomain(input)
	if err != nil {
		return nil, err
	}

	prereqs, err := v.fetchPrerequisites(ctx, domain)
	if err != nil {
		return nil, err
	}

	logger.Debug("fetched prerequisites")

	checks, err := v.runChecks(ctx, prereqs)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Domain:    domain.String(),
		IPAddress: prereqs.Resolution.ResolvedAddress(),
		Checks:    checks,
	}

	v.attachToolOutput(ctx, domain, report)

	return report, nil
}

func outcomeOf(err error) string {
	var (
		inputErr  *model.InputError
		prereqErr *PrerequisiteError
	)

	switch {
	case err == nil:
		return evt.OutcomeCompleted
	case errors.As(err, &inputErr):
		return evt.OutcomeInvalidInput
	case errors.As(err, &prereqErr):
		return evt.OutcomePrerequisiteFailed
	default:
		return evt.OutcomeInternalError
	}
}

// runChecks evaluates all checks concurrently. Every check writes only its own slot.
func (v *Validator) runChecks(ctx context.Context, prereqs *Prerequisites) ([]model.NamedResult, error) {
	checks := v.checks()
	results := make([]model.NamedResult, len(checks))

	g, gCtx := errgroup.WithContext(ctx)

	for i, c := range checks {
		g.Go(func() error {
			result, err := c.evaluate(gCtx, prereqs)
			if err != nil {
				return fmt.Errorf("check %s: %w", c.name, err)
			}

			results[i] = model.NamedResult{Name: c.name, Result: result}

			evt.Bus().Publish(evt.CheckEvaluated, string(c.name), result.OK)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
