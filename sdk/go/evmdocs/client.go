// Package evmdocs is a Go client for the evmmcpd resource server. It reads the
// EVM reference documents over JSON-RPC and queries the chain registry over
// REST.
package evmdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync/atomic"
	"time"
)

// DefaultHTTPTimeout defines the timeout used by clients created without a
// custom http.Client.
const DefaultHTTPTimeout = 15 * time.Second

// Well-known document URIs.
const (
	GasReferenceURI    = "evm://docs/gas-reference"
	BlockExplorersURI  = "evm://docs/block-explorers"
	SupportedChainsURI = "evm://docs/supported-chains"
)

// Client wraps the HTTP interactions with an evmmcpd server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	nextID     atomic.Int64
}

// Resource describes a document advertised by resources/list.
type Resource struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

// Content is one item of a resources/read result.
type Content struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResult is the resources/read payload.
type ReadResult struct {
	Contents []Content `json:"contents"`
}

// GasBand is one entry of the gas reference document, in Gwei.
type GasBand struct {
	Low      float64 `json:"low"`
	Average  float64 `json:"average"`
	High     float64 `json:"high"`
	VeryHigh float64 `json:"veryHigh"`
}

// ChainInfo describes a chain. RPC is only populated by Chain.
type ChainInfo struct {
	Network  string `json:"network"`
	RPC      string `json:"rpc,omitempty"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// APIError represents a non-2xx REST response.
type APIError struct {
	StatusCode int
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Supported  []string `json:"supported,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("evmdocs api error (%d): %s - %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("evmdocs api error (%d): %s", e.StatusCode, e.Message)
}

// RPCError is a JSON-RPC error returned by the server.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("evmdocs rpc error %d: %s", e.Code, e.Message)
}

// NewClient instantiates a client for the server at rawURL. When httpClient is
// nil, a default client with DefaultHTTPTimeout is used.
func NewClient(rawURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// ListResources returns the documents the server exposes.
func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	var out struct {
		Resources []Resource `json:"resources"`
	}
	if err := c.rpc(ctx, "resources/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// ReadResource reads the document addressed by uri.
func (c *Client) ReadResource(ctx context.Context, uri string) (ReadResult, error) {
	var out ReadResult
	if err := c.rpc(ctx, "resources/read", map[string]string{"uri": uri}, &out); err != nil {
		return ReadResult{}, err
	}
	return out, nil
}

// GasReference reads and decodes the gas reference document.
func (c *Client) GasReference(ctx context.Context) (map[string]GasBand, error) {
	var out map[string]GasBand
	if err := c.readDocument(ctx, GasReferenceURI, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockExplorers reads and decodes the block explorer document.
func (c *Client) BlockExplorers(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.readDocument(ctx, BlockExplorersURI, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SupportedChains reads and decodes the supported chains document.
func (c *Client) SupportedChains(ctx context.Context) (map[string]ChainInfo, error) {
	var out map[string]ChainInfo
	if err := c.readDocument(ctx, SupportedChainsURI, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chains lists the identifiers served by the chain registry.
func (c *Client) Chains(ctx context.Context) ([]string, error) {
	var out struct {
		Chains []string `json:"chains"`
	}
	if err := c.get(ctx, "/api/v1/chains", &out); err != nil {
		return nil, err
	}
	return out.Chains, nil
}

// Chain looks up one chain. Unknown ids return an *APIError with code
// CHAIN_NOT_SUPPORTED and the supported identifiers.
func (c *Client) Chain(ctx context.Context, id string) (ChainInfo, error) {
	var out ChainInfo
	if err := c.get(ctx, "/api/v1/chains/"+url.PathEscape(id), &out); err != nil {
		return ChainInfo{}, err
	}
	return out, nil
}

func (c *Client) readDocument(ctx context.Context, uri string, out any) error {
	result, err := c.ReadResource(ctx, uri)
	if err != nil {
		return err
	}
	if len(result.Contents) == 0 {
		return fmt.Errorf("resource %s returned no content", uri)
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), out); err != nil {
		return fmt.Errorf("decode %s: %w", uri, err)
	}
	return nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) rpc(ctx context.Context, method string, params any, out any) error {
	payload := rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params}
	var resp rpcResponse
	if err := c.post(ctx, "/mcp", payload, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := APIError{StatusCode: resp.StatusCode}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read error response: %w", err)
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
