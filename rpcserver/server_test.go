package rpcserver_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/mempool"
	"github.com/tos-network/gtos-lite/node"
	"github.com/tos-network/gtos-lite/rpcserver"
	"github.com/tos-network/gtos-lite/types"
)

type fakeBackend struct {
	submitErr error
	nonce     types.Nonce
	snapshot  node.Snapshot
	submitted []types.UncheckedExtrinsic
}

func (f *fakeBackend) SubmitExtrinsic(ext types.UncheckedExtrinsic) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, ext)
	return nil
}

func (f *fakeBackend) PendingNonce(types.AccountId) types.Nonce { return f.nonce }
func (f *fakeBackend) State() node.Snapshot                     { return f.snapshot }

func signedExtrinsic() types.UncheckedExtrinsic {
	alice := crypto.DevKeyring()["alice"]
	call := types.RuntimeCall{Transfer: &types.TransferCall{To: alice.AccountID, Amount: types.NewBalance(1)}}
	return types.Sign(alice.Secret, 0, call)
}

func TestSubmitAcceptsValidExtrinsic(t *testing.T) {
	backend := &fakeBackend{}
	srv := rpcserver.New(backend)

	body := codec.Encode(signedExtrinsic())
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if len(backend.submitted) != 1 {
		t.Fatalf("backend should have received 1 extrinsic, got %d", len(backend.submitted))
	}
}

func TestSubmitRejectsUndecodableBody(t *testing.T) {
	backend := &fakeBackend{}
	srv := rpcserver.New(backend)

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte{0xff, 0xff}))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitMempoolFullReturns503(t *testing.T) {
	backend := &fakeBackend{submitErr: mempool.ErrMempoolFull}
	srv := rpcserver.New(backend)

	body := codec.Encode(signedExtrinsic())
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestNonceReturnsPendingNonce(t *testing.T) {
	backend := &fakeBackend{nonce: 7}
	srv := rpcserver.New(backend)

	alice := crypto.DevKeyring()["alice"].AccountID
	path := "/nonce/" + hex.EncodeToString(types.AccountId(alice).Bytes())
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var out map[string]uint32
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["nonce"] != 7 {
		t.Fatalf("nonce = %d, want 7", out["nonce"])
	}
}

func TestNonceRejectsMalformedAccount(t *testing.T) {
	backend := &fakeBackend{}
	srv := rpcserver.New(backend)

	req := httptest.NewRequest(http.MethodGet, "/nonce/not-hex", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStateReturnsSnapshot(t *testing.T) {
	backend := &fakeBackend{snapshot: node.Snapshot{BlockNumber: 3}}
	srv := rpcserver.New(backend)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out node.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.BlockNumber != 3 {
		t.Fatalf("block number = %d, want 3", out.BlockNumber)
	}
}
