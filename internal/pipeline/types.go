// Package pipeline holds the user-owned DAG pipeline types and the
// pure condition evaluator (component I).
//
// Grounded on listen-engine/src/engine/pipeline.rs's flat,
// UUID-referenced step graph (read via original_source), expressed
// here as plain JSON-tagged Go structs the way the teacher models its
// own PrivacyAnalysisResult aggregate in pkg/models/transaction.go.
package pipeline

import "github.com/google/uuid"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Pipeline is a user-owned directed-acyclic graph of steps.
type Pipeline struct {
	ID            uuid.UUID            `json:"id"`
	UserID        string               `json:"user_id"`
	WalletAddress *string              `json:"wallet_address,omitempty"`
	Pubkey        *string              `json:"pubkey,omitempty"`
	Steps         map[uuid.UUID]*Step  `json:"steps"`
	CurrentSteps  []uuid.UUID          `json:"current_steps"`
	Status        Status               `json:"status"`
}

type Step struct {
	ID              uuid.UUID   `json:"id"`
	Status          Status      `json:"status"`
	Conditions      []Condition `json:"conditions"`
	Action          Action      `json:"action"`
	NextSteps       []uuid.UUID `json:"next_steps"`
	TransactionHash *string     `json:"transaction_hash,omitempty"`
	Error           *string     `json:"error,omitempty"`
}

// ConditionKind tags which variant of the recursive Condition union is
// populated.
type ConditionKind string

const (
	ConditionPriceAbove      ConditionKind = "price_above"
	ConditionPriceBelow      ConditionKind = "price_below"
	ConditionPercentageChange ConditionKind = "percentage_change"
	ConditionAnd             ConditionKind = "and"
	ConditionOr              ConditionKind = "or"
)

// Condition is a tagged union represented as a flat struct (rather
// than an interface) so it serializes to and from JSON without a
// custom UnmarshalJSON — only the fields relevant to Kind are set.
type Condition struct {
	Kind       ConditionKind `json:"kind"`
	Asset      string        `json:"asset,omitempty"`
	Value      float64       `json:"value,omitempty"`
	FromPrice  float64       `json:"from_price,omitempty"`
	Percentage float64       `json:"percentage,omitempty"`
	Sub        []Condition   `json:"sub,omitempty"`
}

type ActionKind string

const (
	ActionOrder        ActionKind = "order"
	ActionNotification ActionKind = "notification"
)

type Action struct {
	Kind         ActionKind     `json:"kind"`
	Order        *SwapOrder     `json:"order,omitempty"`
	Notification map[string]any `json:"notification,omitempty"`
}

// SwapOrder carries amount as a string to avoid precision loss across
// the JSON boundary.
type SwapOrder struct {
	InputToken    string `json:"input_token"`
	OutputToken   string `json:"output_token"`
	Amount        string `json:"amount"`
	FromChainCAIP2 string `json:"from_chain_caip2"`
	ToChainCAIP2   string `json:"to_chain_caip2"`
}

// nativeNamespaces is the CAIP-2 namespace whitelist identifying
// native-family (non-EVM) chains; everything else is treated as EVM.
var nativeNamespaces = map[string]struct{}{
	"solana": {},
}

func namespace(caip2 string) string {
	for i := 0; i < len(caip2); i++ {
		if caip2[i] == ':' {
			return caip2[:i]
		}
	}
	return caip2
}

func (o SwapOrder) IsSolana() bool {
	_, ok := nativeNamespaces[namespace(o.FromChainCAIP2)]
	return ok
}

func (o SwapOrder) IsEVM() bool {
	return !o.IsSolana()
}
