package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/htools/sitecheck/api"
)

const (
	defaultHealthcheckAddr    = "127.0.0.1:3001"
	defaultHealthcheckTimeout = 5 * time.Second
)

// NewHealthcheckCommand creates new command instance
func NewHealthcheckCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "healthcheck",
		Args:  cobra.NoArgs,
		Short: "performs healthcheck against a running API server",
		RunE:  healthcheck,
	}

	c.Flags().StringP("addr", "a", defaultHealthcheckAddr, "host:port of the API server")
	c.Flags().Duration("timeout", defaultHealthcheckTimeout, "request timeout")

	return c
}

func healthcheck(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	err := probeAPI(cmd.Context(), "http://"+addr+api.PathRoot, timeout)
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "NOT OK")
	}

	return err
}

func probeAPI(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("can't execute: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(len(api.Banner))))
	if err != nil {
		return fmt.Errorf("can't read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || string(body) != api.Banner {
		return fmt.Errorf("response NOK, %s '%s'", resp.Status, string(body))
	}

	return nil
}
