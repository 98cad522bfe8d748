package reconstruct

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const jupiterPriceEndpoint = "https://api.jup.ag/price/v2"

// wrappedNativeMint is wSOL's mint address, used as the price-lookup
// key against Jupiter's pricing endpoint.
const wrappedNativeMint = "So11111111111111111111111111111111111111112"

type jupiterPriceData struct {
	Price string `json:"price"`
}

type jupiterPriceResponse struct {
	Data map[string]jupiterPriceData `json:"data"`
}

// JupiterPriceSource implements PriceSource with a bare net/http GET
// against Jupiter's price endpoint, grounded on jupiter.go's getPrices.
type JupiterPriceSource struct {
	httpClient *http.Client
}

func NewJupiterPriceSource() *JupiterPriceSource {
	return &JupiterPriceSource{httpClient: &http.Client{}}
}

func (j *JupiterPriceSource) NativeUSDPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jupiterPriceEndpoint+"?ids="+wrappedNativeMint, nil)
	if err != nil {
		return 0, err
	}
	res, err := j.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, err
	}

	var parsed jupiterPriceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, err
	}
	data, ok := parsed.Data[wrappedNativeMint]
	if !ok {
		return 0, fmt.Errorf("no native price in jupiter response")
	}
	return strconv.ParseFloat(data.Price, 64)
}
