// Package bridge runs the external DNSSEC diagnostic tools delv and dnsviz.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
)

const bridgeLogger = "bridge"

// dnsviz links its javascript and css from the local installation
var assetPathRegex = regexp.MustCompile(`(?im)[^"']*share/dnsviz`)

// ErrDisabled is returned by all operations if the tools are disabled
var ErrDisabled = errors.New("external tools are disabled")

// ToolError is returned if a tool could not be run or exited with an error
type ToolError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}

	return fmt.Sprintf("can't run %s: %s", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Bridge runs delv and dnsviz as child processes
type Bridge struct {
	cfg config.Tools
}

// New creates a bridge for the configured tools
func New(cfg config.Tools) *Bridge {
	return &Bridge{cfg: cfg}
}

// Enabled returns true if the tools should be run
func (b *Bridge) Enabled() bool {
	return b.cfg.Enable
}

// TraceChain returns the resolution and validation trace of delv for the A record of domain
func (b *Bridge) TraceChain(ctx context.Context, domain model.Domain) (string, error) {
	return b.run(ctx, b.cfg.Delv, nil, true,
		"@"+b.cfg.Server.Host,
		"-p", strconv.Itoa(int(b.cfg.Server.Port)),
		"-a", b.cfg.AnchorFile,
		domain.String(), "A",
		"+rtrace", "+vtrace")
}

// Probe returns the dnsviz probe data of domain
func (b *Bridge) Probe(ctx context.Context, domain model.Domain) (string, error) {
	return b.run(ctx, b.cfg.Dnsviz, nil, false, "probe", "-s", b.cfg.Server.Host, domain.String())
}

// Graph renders probe data as HTML with assets served from the configured base URL
func (b *Bridge) Graph(ctx context.Context, probe string) (string, error) {
	out, err := b.run(ctx, b.cfg.Dnsviz, strings.NewReader(probe), false,
		"graph", "-Thtml", "-t", b.cfg.TrustedKeysFile)
	if err != nil {
		return "", err
	}

	return RewriteAssetURLs(out, b.cfg.AssetBaseURL), nil
}

// RewriteAssetURLs replaces every local dnsviz asset path prefix with baseURL
func RewriteAssetURLs(html, baseURL string) string {
	return assetPathRegex.ReplaceAllLiteralString(html, baseURL)
}

func (b *Bridge) run(ctx context.Context, tool string, stdin *strings.Reader, withStderr bool,
	args ...string,
) (string, error) {
	if !b.cfg.Enable {
		return "", ErrDisabled
	}

	logger := log.FromCtx(ctx).WithField("prefix", bridgeLogger)

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout.ToDuration())
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = b.cfg.WorkDir

	if stdin != nil {
		cmd.Stdin = stdin
	}

	var out bytes.Buffer

	cmd.Stdout = &out

	if withStderr {
		cmd.Stderr = &out
	}

	logger.Debugf("running %s %s", tool, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return "", &ToolError{Tool: tool, ExitCode: exitErr.ExitCode(), Err: err}
		}

		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}

		return "", &ToolError{Tool: tool, Err: err}
	}

	return out.String(), nil
}
