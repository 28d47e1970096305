// Package remote implements a Toolbox backed by a JSON-RPC 2.0 tool server
// speaking the tools/list and tools/call methods over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"goa.design/braid/tools"
)

type (
	// Toolbox exposes the tools of a remote JSON-RPC server.
	Toolbox struct {
		name     string
		endpoint string
		client   *http.Client
		nextID   atomic.Int64
	}

	// Option customizes a remote toolbox.
	Option func(*Toolbox)

	// Info is the wire description of a remote tool.
	Info struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"inputSchema"`
	}

	request struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int64  `json:"id"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}

	response struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      any             `json:"id,omitempty"`
		Result  json.RawMessage `json:"result,omitempty"`
		Error   *rpcError       `json:"error,omitempty"`
	}

	rpcError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	listResult struct {
		Tools []Info `json:"tools"`
	}

	callParams struct {
		Name      string `json:"name"`
		Arguments any    `json:"arguments"`
	}

	callResult struct {
		Content []contentItem `json:"content"`
		IsError bool          `json:"isError"`
	}

	contentItem struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}

	remoteTool struct {
		box  *Toolbox
		info Info
	}
)

// Error implements error.
func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Toolbox) { t.client = c }
}

// New builds a remote toolbox for the server at endpoint. Wrap it in
// tools.NewCached to avoid refetching the tool list on every lookup.
func New(name, endpoint string, opts ...Option) *Toolbox {
	t := &Toolbox{
		name:     name,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name identifies the toolbox.
func (t *Toolbox) Name() string { return t.name }

// Tools fetches the remote tool list, keyed by normalized name.
func (t *Toolbox) Tools(ctx context.Context) (map[string]tools.Tool, error) {
	raw, err := t.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var list listResult
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode tool list from %s: %w", t.name, err)
	}
	m := make(map[string]tools.Tool, len(list.Tools))
	for _, info := range list.Tools {
		m[tools.NormalizeName(info.Name)] = &remoteTool{box: t, info: info}
	}
	return m, nil
}

func (t *Toolbox) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      t.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, t.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s on %s: unexpected status %d", method, t.name, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	var rpc response
	if err := json.Unmarshal(data, &rpc); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpc.Error != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, t.name, rpc.Error)
	}
	return rpc.Result, nil
}

// Name returns the remote tool name.
func (rt *remoteTool) Name() string { return rt.info.Name }

// Description returns the remote tool description.
func (rt *remoteTool) Description() string { return rt.info.Description }

// Schema returns the remote input schema, defaulting when the server omits
// it.
func (rt *remoteTool) Schema() map[string]any {
	if rt.info.InputSchema == nil {
		return tools.DefaultSchema()
	}
	return rt.info.InputSchema
}

// Strict reports that validation is left to the server.
func (rt *remoteTool) Strict() bool { return false }

// UsageLimit reports no cap.
func (rt *remoteTool) UsageLimit() int { return 0 }

// Call invokes the tool on the server and joins the returned text content.
func (rt *remoteTool) Call(ctx context.Context, input any) (string, error) {
	raw, err := rt.box.call(ctx, "tools/call", callParams{Name: rt.info.Name, Arguments: input})
	if err != nil {
		return "", err
	}
	var result callResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Some servers return a bare string result.
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s, nil
		}
		return "", fmt.Errorf("decode result of tool %s: %w", rt.info.Name, err)
	}
	var out bytes.Buffer
	for _, item := range result.Content {
		if item.Type != "text" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(item.Text)
	}
	if result.IsError {
		return "", tools.NewError(out.String())
	}
	return out.String(), nil
}
