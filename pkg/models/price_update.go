// Package models holds the wire-level JSON records published and
// cached by the ingestion pipeline.
//
// Field shape grounded on pkg/models/transaction.go's plain-struct,
// json-tagged, unit-commented style from the teacher repo.
package models

// PriceUpdate is the canonical normalized record pushed through the
// price-update bus and written to the KV cache and warehouse.
type PriceUpdate struct {
	Name       string  `json:"name"`
	Pubkey     string  `json:"pubkey"`
	Price      float64 `json:"price"`
	MarketCap  float64 `json:"market_cap"`
	Timestamp  int64   `json:"timestamp"` // seconds since epoch, at publish time
	Slot       uint64  `json:"slot"`
	SwapAmount float64 `json:"swap_amount"`
	Owner      string  `json:"owner"`
	Signature  string  `json:"signature"`
	MultiHop   bool    `json:"multi_hop"`
	IsBuy      bool    `json:"is_buy"`
	IsPump     bool    `json:"is_pump"`
}
