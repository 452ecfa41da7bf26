// Package proverclient is a thin reach to the external HTTP prover
// service spec §6 documents the wire contract for (`POST /prove`,
// `POST /verify`) — the service itself stays out of this module's scope
// (spec §1), the same way holomush's cmd/holomush status command talks
// to its own control-plane processes over plain net/http without owning
// either server.
package proverclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// Client reaches a running prover service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client with a sane default timeout; callers that expect
// large proving jobs should override HTTPClient directly.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProveRequest is `POST /prove`'s body (spec §6).
type ProveRequest struct {
	MidenCode string          `json:"midenCode"`
	ABI       json.RawMessage `json:"abi"`
	This      json.RawMessage `json:"this"`
	Args      json.RawMessage `json:"args"`
}

// StackTrace is the `stack` object `POST /prove` returns.
type StackTrace struct {
	Input        []string `json:"input"`
	Output       []string `json:"output"`
	OverflowAddr []string `json:"overflowAddrs"`
}

// RunSide is the `old`/`new` object `POST /prove` returns.
type RunSide struct {
	This           json.RawMessage `json:"this"`
	Hashes         json.RawMessage `json:"hashes,omitempty"`
	SelfDestructed bool            `json:"selfDestructed,omitempty"`
}

// ResultValue is the optional `result` object `POST /prove` returns.
type ResultValue struct {
	Value json.RawMessage `json:"value"`
	Hash  string          `json:"hash"`
}

// ProveResponse is `POST /prove`'s response body (spec §6).
type ProveResponse struct {
	Proof       string       `json:"proof"` // base64
	ProofLength int          `json:"proofLength"`
	CycleCount  int          `json:"cycleCount"`
	Logs        []any        `json:"logs"`
	New         RunSide      `json:"new"`
	Old         RunSide      `json:"old"`
	Result      *ResultValue `json:"result,omitempty"`
	Stack       StackTrace   `json:"stack"`
	ProgramInfo string       `json:"programInfo"`
	ReadAuth    bool         `json:"readAuth"`
}

// VerifyRequest is `POST /verify`'s body (spec §6).
type VerifyRequest struct {
	Proof         string   `json:"proof"`
	ProgramInfo   string   `json:"programInfo"`
	StackInputs   []string `json:"stackInputs"`
	OutputStack   []string `json:"outputStack"`
	OverflowAddrs []string `json:"overflowAddrs"`
}

// VerifyResponse is `POST /verify`'s response body (spec §6).
type VerifyResponse struct {
	Valid      bool  `json:"valid"`
	DurationMs int64 `json:"durationMs"`
}

// Prove calls `POST /prove`.
func (c *Client) Prove(ctx context.Context, req ProveRequest) (*ProveResponse, error) {
	var resp ProveResponse
	if err := c.post(ctx, "/prove", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Verify calls `POST /verify`.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.post(ctx, "/verify", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return oops.Code("PROVERCLIENT_ENCODE_FAILED").Wrap(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return oops.Code("PROVERCLIENT_REQUEST_FAILED").Wrap(err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return oops.Code("PROVERCLIENT_UNREACHABLE").With("path", path).Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return oops.Code("PROVERCLIENT_BAD_STATUS").With("status", resp.StatusCode).With("path", path).
			Errorf("prover service returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return oops.Code("PROVERCLIENT_DECODE_FAILED").Wrap(err)
	}

	return nil
}
