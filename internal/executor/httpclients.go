package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPQuoteProvider implements QuoteProvider against a REST quote
// service reachable at baseURL, using the same bare net/http +
// encoding/json shape jupiter.go uses for its own HTTP calls — no HTTP
// client library is used anywhere in the pack for simple JSON round
// trips.
type HTTPQuoteProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPQuoteProvider(baseURL string) *HTTPQuoteProvider {
	return &HTTPQuoteProvider{baseURL: baseURL, httpClient: &http.Client{}}
}

func (q *HTTPQuoteProvider) GetQuote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	var out QuoteResponse
	if err := postJSON(ctx, q.httpClient, q.baseURL+"/quote", req, &out); err != nil {
		return QuoteResponse{}, fmt.Errorf("quote request: %w", err)
	}
	return out, nil
}

// HTTPSigner implements Signer against a REST signing service
// reachable at baseURL — the wallet/key material itself never enters
// this process, per the spec's external-interfaces boundary.
type HTTPSigner struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPSigner(baseURL string) *HTTPSigner {
	return &HTTPSigner{baseURL: baseURL, httpClient: &http.Client{}}
}

func (s *HTTPSigner) SignAndSendEVM(ctx context.Context, jsonTx string) (string, error) {
	var out struct {
		TxHash string `json:"tx_hash"`
	}
	body := struct {
		Transaction string `json:"transaction"`
	}{Transaction: jsonTx}
	if err := postJSON(ctx, s.httpClient, s.baseURL+"/sign-and-send/evm", body, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

func (s *HTTPSigner) SignAndSendNativeEncoded(ctx context.Context, base64Tx string) (string, error) {
	var out struct {
		TxHash string `json:"tx_hash"`
	}
	body := struct {
		Transaction string `json:"transaction"`
	}{Transaction: base64Tx}
	if err := postJSON(ctx, s.httpClient, s.baseURL+"/sign-and-send/native", body, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

func (s *HTTPSigner) Allowance(ctx context.Context, token, owner, spender, chainID string) (uint64, error) {
	var out struct {
		Allowance uint64 `json:"allowance"`
	}
	body := struct {
		Token, Owner, Spender, ChainID string
	}{token, owner, spender, chainID}
	if err := postJSON(ctx, s.httpClient, s.baseURL+"/allowance", body, &out); err != nil {
		return 0, err
	}
	return out.Allowance, nil
}

func (s *HTTPSigner) BuildApprovalTx(ctx context.Context, token, spender, owner, chainID string) (string, error) {
	var out struct {
		Transaction string `json:"transaction"`
	}
	body := struct {
		Token, Spender, Owner, ChainID string
	}{token, spender, owner, chainID}
	if err := postJSON(ctx, s.httpClient, s.baseURL+"/build-approval", body, &out); err != nil {
		return "", err
	}
	return out.Transaction, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("request to %s failed with status %d: %s", url, res.StatusCode, string(body))
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
