package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/model"
	"github.com/htools/sitecheck/util"
)

const (
	// hsd expects the api key as password of this user
	apiKeyUser = "x"

	maxResponseSize = 500 * 1000
)

var errNotFound = errors.New("not found")

// Outpoint references one output of a transaction
type Outpoint struct {
	Hash  string `json:"hash"`
	Index int    `json:"index"`
}

// NameInfo is the part of `getnameinfo` needed to find the owning output
type NameInfo struct {
	Name  string   `json:"name"`
	Owner Outpoint `json:"owner"`
}

// Covenant of a transaction output
type Covenant struct {
	Type   int    `json:"type"`
	Action string `json:"action"`
}

// Input of a transaction
type Input struct {
	Prevout Outpoint `json:"prevout"`
}

// Output of a transaction
type Output struct {
	Covenant Covenant `json:"covenant"`
}

// Transaction is a confirmed transaction as returned by `GET /tx/{hash}`
type Transaction struct {
	Hash    string   `json:"hash"`
	Height  int64    `json:"height"`
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

type nodeInfo struct {
	Chain struct {
		Height int64 `json:"height"`
	} `json:"chain"`
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Client talks to the HTTP API of an hsd full node
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the configured node
func NewClient(cfg config.Ledger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout.ToDuration(),
		},
	}
}

// Height returns the height of the node's chain tip
func (c *Client) Height(ctx context.Context) (int64, error) {
	var info nodeInfo

	if err := c.get(ctx, "/", &info); err != nil {
		return 0, err
	}

	return info.Chain.Height, nil
}

// NameInfo returns the on-chain state of name or nil if the name was never opened
func (c *Client) NameInfo(ctx context.Context, name string) (*NameInfo, error) {
	var result struct {
		Info *NameInfo `json:"info"`
	}

	if err := c.rpc(ctx, "getnameinfo", []interface{}{name}, &result); err != nil {
		return nil, err
	}

	return result.Info, nil
}

// NameResource returns the records of name, an empty resource if none were registered
func (c *Client) NameResource(ctx context.Context, name string) (*model.Resource, error) {
	var resource *model.Resource

	if err := c.rpc(ctx, "getnameresource", []interface{}{name}, &resource); err != nil {
		return nil, err
	}

	if resource == nil {
		resource = &model.Resource{}
	}

	return resource, nil
}

// Transaction returns the transaction with the given hash
func (c *Client) Transaction(ctx context.Context, hash string) (*Transaction, error) {
	var tx Transaction

	if err := c.get(ctx, "/tx/"+hash, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (c *Client) get(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, target)
}

func (c *Client) rpc(ctx context.Context, method string, params []interface{}, target interface{}) error {
	body, err := json.Marshal(rpcRequest{Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	var response rpcResponse

	if err := c.do(req, &response); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if response.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, response.Error.Code, response.Error.Message)
	}

	if len(response.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(response.Result, target); err != nil {
		return fmt.Errorf("%s: can't decode result: %w", method, err)
	}

	return nil
}

func (c *Client) do(req *http.Request, target interface{}) error {
	if c.apiKey != "" {
		req.SetBasicAuth(apiKeyUser, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		util.LogOnError("can't close response body ", resp.Body.Close())
	}()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", req.URL.Path, errNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: got status code %d", req.URL.Path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("can't read response body: %w", err)
	}

	if len(data) > maxResponseSize {
		return fmt.Errorf("%s: response size over limit of %d bytes", req.URL.Path, maxResponseSize)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("can't decode response: %w", err)
	}

	return nil
}
