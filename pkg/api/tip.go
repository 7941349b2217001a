// Package api defines the request and response messages of the SplitzyTip
// Connect services. Handlers and clients live in package apiconnect.
package api

// TipInput carries the calculator fields exactly as typed.
type TipInput struct {
	BillAmount  string `json:"billAmount"`
	PeopleCount string `json:"peopleCount"`
	// TipSelection is a preset percentage ("15", "18", "20", "25") or "custom".
	TipSelection string `json:"tipSelection"`
	CustomTip    string `json:"customTip"`
}

// ComputeRequest asks for the tip and split of one calculator state.
type ComputeRequest struct {
	TipInput
}

// TipResult is the computed breakdown.
//
// JSON cannot carry NaN, so amounts that are not finite (an unparseable
// custom tip on an otherwise valid bill) are sent as 0 with Complete=false.
type TipResult struct {
	Valid    bool `json:"valid"`
	Complete bool `json:"complete"`

	// TipPercent is omitted when the custom tip could not be parsed.
	TipPercent *float64 `json:"tipPercent,omitempty"`

	TipAmount      float64 `json:"tipAmount"`
	TotalAmount    float64 `json:"totalAmount"`
	TipPerPerson   float64 `json:"tipPerPerson"`
	TotalPerPerson float64 `json:"totalPerPerson"`

	Formatted FormattedAmounts `json:"formatted"`
}

// FormattedAmounts are the amounts rendered as US currency ("$1,234.50").
type FormattedAmounts struct {
	TipAmount      string `json:"tipAmount"`
	TotalAmount    string `json:"totalAmount"`
	TipPerPerson   string `json:"tipPerPerson"`
	TotalPerPerson string `json:"totalPerPerson"`
}

type ComputeResponse struct {
	Result TipResult `json:"result"`
}

// ResetResponse carries the input of a fresh calculator.
type ResetResponse struct {
	Input TipInput `json:"input"`
}

type PresetsResponse struct {
	Presets []float64 `json:"presets"`
	Default string    `json:"default"`
}
