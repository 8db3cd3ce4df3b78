package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// NewCtx stores logger in ctx and returns both
func NewCtx(ctx context.Context, logger *logrus.Entry) (context.Context, *logrus.Entry) {
	ctx = context.WithValue(ctx, ctxKey{}, logger)

	return ctx, entryWithCtx(ctx, logger)
}

// FromCtx returns the logger stored in ctx or the global one
func FromCtx(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(ctxKey{}).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(Log())
	}

	// `ctx` may be a child of `logger.Context`
	return entryWithCtx(ctx, logger)
}

func entryWithCtx(ctx context.Context, logger *logrus.Entry) *logrus.Entry {
	loggerCopy := *logger
	loggerCopy.Context = ctx

	return &loggerCopy
}

// WrapCtx derives a new logger from the one in ctx
func WrapCtx(ctx context.Context, wrap func(*logrus.Entry) *logrus.Entry) (context.Context, *logrus.Entry) {
	return NewCtx(ctx, wrap(FromCtx(ctx)))
}

// CtxWithFields adds fields to the logger in ctx
func CtxWithFields(ctx context.Context, fields logrus.Fields) (context.Context, *logrus.Entry) {
	return WrapCtx(ctx, func(e *logrus.Entry) *logrus.Entry {
		return e.WithFields(fields)
	})
}

// RunCtx returns a context whose logger is tagged with one validation run
func RunCtx(ctx context.Context, prefix, runID, domain string) (context.Context, *logrus.Entry) {
	return CtxWithFields(ctx, logrus.Fields{
		"prefix": prefix,
		"run_id": runID,
		"domain": domain,
	})
}
