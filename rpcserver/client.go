package rpcserver

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/types"
)

// Client is a thin HTTP client for the CLI's submit-transfer/submit-claim
// commands, talking to a node's RPC surface over the three endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client against baseURL (e.g. "http://127.0.0.1:8545").
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// PendingNonce calls GET /nonce/:account.
func (c *Client) PendingNonce(account types.AccountId) (types.Nonce, error) {
	resp, err := c.HTTP.Get(c.BaseURL + "/nonce/" + hex.EncodeToString(account.Bytes()))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("rpcserver: nonce request failed: %s: %s", resp.Status, body)
	}
	var out struct {
		Nonce uint32 `json:"nonce"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return types.Nonce(out.Nonce), nil
}

// SubmitExtrinsic calls POST /submit with ext's canonical encoding.
func (c *Client) SubmitExtrinsic(ext types.UncheckedExtrinsic) error {
	resp, err := c.HTTP.Post(c.BaseURL+"/submit", "application/octet-stream", bytes.NewReader(codec.Encode(ext)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rpcserver: submit failed: %s: %s", resp.Status, body)
	}
	return nil
}
