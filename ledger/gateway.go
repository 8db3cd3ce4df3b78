package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
)

const ledgerLogger = "ledger"

// Covenant actions that write the resource of a name
const (
	ActionClaim    = "CLAIM"
	ActionRegister = "REGISTER"
	ActionUpdate   = "UPDATE"
)

// LedgerError is returned if the on-chain state of a name could not be read
type LedgerError struct {
	Op   string
	Name string
	Err  error
}

func (e *LedgerError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("ledger %s failed: %s", e.Op, e.Err)
	}

	return fmt.Sprintf("ledger %s of '%s' failed: %s", e.Op, e.Name, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnknownName is wrapped if the name has no on-chain presence
	ErrUnknownName = errors.New("name not found on chain")
	// ErrWalkDepthExceeded is wrapped if no record update was found within the configured depth
	ErrWalkDepthExceeded = errors.New("no record update found within walk depth")
)

// Node is the subset of the hsd API the gateway needs
type Node interface {
	Height(ctx context.Context) (int64, error)
	NameInfo(ctx context.Context, name string) (*NameInfo, error)
	NameResource(ctx context.Context, name string) (*model.Resource, error)
	Transaction(ctx context.Context, hash string) (*Transaction, error)
}

// Gateway answers chain questions on top of an hsd node
type Gateway struct {
	node         Node
	maxWalkDepth uint
}

// NewGateway creates a gateway backed by the configured hsd node
func NewGateway(cfg config.Ledger) *Gateway {
	return NewGatewayWithNode(NewClient(cfg), cfg.MaxWalkDepth)
}

// NewGatewayWithNode creates a gateway for an arbitrary node implementation
func NewGatewayWithNode(node Node, maxWalkDepth uint) *Gateway {
	return &Gateway{node: node, maxWalkDepth: maxWalkDepth}
}

// CurrentHeight returns the current chain height
func (g *Gateway) CurrentHeight(ctx context.Context) (int64, error) {
	height, err := g.node.Height(ctx)
	if err != nil {
		return 0, &LedgerError{Op: "height", Err: err}
	}

	return height, nil
}

// LatestUpdate returns the height of the last transaction that wrote the resource of label,
// together with the resource currently on chain
func (g *Gateway) LatestUpdate(ctx context.Context, label string) (model.Update, error) {
	logger := log.FromCtx(ctx).WithField("prefix", ledgerLogger)

	info, err := g.node.NameInfo(ctx, label)
	if err != nil {
		return model.Update{}, &LedgerError{Op: "name info", Name: label, Err: err}
	}

	if info == nil {
		return model.Update{}, &LedgerError{Op: "name info", Name: label, Err: ErrUnknownName}
	}

	resource, err := g.node.NameResource(ctx, label)
	if err != nil {
		return model.Update{}, &LedgerError{Op: "name resource", Name: label, Err: err}
	}

	height, err := g.walk(ctx, logger, info.Owner)
	if err != nil {
		return model.Update{}, &LedgerError{Op: "update search", Name: label, Err: err}
	}

	return model.Update{Height: height, Resource: resource}, nil
}

// walk follows the owner outpoint back through its ancestors until an output
// with a resource writing covenant is found
func (g *Gateway) walk(ctx context.Context, logger *logrus.Entry, start Outpoint) (int64, error) {
	current := start

	for depth := uint(0); depth < g.maxWalkDepth; depth++ {
		tx, err := g.node.Transaction(ctx, current.Hash)
		if err != nil {
			return 0, fmt.Errorf("can't fetch transaction %s: %w", current.Hash, err)
		}

		if current.Index < 0 || current.Index >= len(tx.Outputs) {
			return 0, fmt.Errorf("transaction %s has no output %d", current.Hash, current.Index)
		}

		action := tx.Outputs[current.Index].Covenant.Action

		logger.WithFields(logrus.Fields{
			"tx":     current.Hash,
			"index":  current.Index,
			"action": action,
			"depth":  depth,
		}).Trace("visited transaction")

		if writesResource(action) {
			if tx.Height < 0 {
				return 0, fmt.Errorf("transaction %s is not confirmed", current.Hash)
			}

			return tx.Height, nil
		}

		if current.Index >= len(tx.Inputs) {
			return 0, fmt.Errorf("transaction %s has no input %d", current.Hash, current.Index)
		}

		current = tx.Inputs[current.Index].Prevout
	}

	return 0, fmt.Errorf("%w (%d)", ErrWalkDepthExceeded, g.maxWalkDepth)
}

func writesResource(action string) bool {
	switch action {
	case ActionUpdate, ActionRegister, ActionClaim:
		return true
	}

	return false
}
