// Package calculator computes tips and per-person splits from the raw
// text of the calculator form.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CustomTipKey is the text form of the custom tip selection.
const CustomTipKey = "custom"

// DefaultTipPercent is the preset selected on a fresh calculator.
const DefaultTipPercent = 18

var presets = []float64{15, 18, 20, 25}

// ErrUnknownTipSelection is returned when a selection is neither a preset nor custom.
var ErrUnknownTipSelection = errors.New("unknown tip selection")

// Presets returns the quick-select tip percentages, in display order.
func Presets() []float64 {
	out := make([]float64, len(presets))
	copy(out, presets)
	return out
}

// TipSelection picks which tip rate is authoritative: one of the presets,
// or the custom text on the input.
type TipSelection struct {
	percent float64
	custom  bool
}

// CustomTip selects the custom tip text as the rate in effect.
var CustomTip = TipSelection{custom: true}

// PresetTip selects one of the preset percentages.
func PresetTip(percent float64) (TipSelection, error) {
	for _, p := range presets {
		if p == percent {
			return TipSelection{percent: percent}, nil
		}
	}
	return TipSelection{}, fmt.Errorf("%w: %v%%", ErrUnknownTipSelection, percent)
}

// ParseTipSelection accepts a preset ("15", "18", "20", "25") or "custom".
func ParseTipSelection(s string) (TipSelection, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if strings.EqualFold(s, CustomTipKey) {
		return CustomTip, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TipSelection{}, fmt.Errorf("%w: %q", ErrUnknownTipSelection, s)
	}
	return PresetTip(v)
}

// IsCustom reports whether the custom tip text is in effect.
func (s TipSelection) IsCustom() bool {
	return s.custom
}

// Percent returns the preset percentage. ok is false for the custom selection.
func (s TipSelection) Percent() (percent float64, ok bool) {
	if s.custom {
		return 0, false
	}
	return s.percent, true
}

func (s TipSelection) String() string {
	if s.custom {
		return CustomTipKey
	}
	return strconv.FormatFloat(s.percent, 'f', -1, 64)
}

// TipInput holds the raw calculator fields exactly as typed.
type TipInput struct {
	BillAmount  string
	PeopleCount string
	Tip         TipSelection
	// CustomTip is only read when Tip is the custom selection.
	CustomTip string
}

// TipResult is derived from a TipInput by Compute.
type TipResult struct {
	// Valid is true iff the bill is a finite number > 0 and the people
	// count is a positive integer. The tip percent is not part of it.
	Valid bool

	// TipPercent is the rate in effect. NaN when custom text is unparseable.
	TipPercent float64

	TipAmount      float64
	TotalAmount    float64
	TipPerPerson   float64
	TotalPerPerson float64
}

// Reset returns the input of a fresh calculator.
func Reset() TipInput {
	return TipInput{
		BillAmount:  "",
		PeopleCount: "1",
		Tip:         TipSelection{percent: DefaultTipPercent},
		CustomTip:   "",
	}
}

// Compute derives the tip and split amounts from in.
//
// Invalid bill or people input yields Valid=false with every amount zeroed.
// An unparseable custom tip does not invalidate the result: the NaN rate
// propagates into the amounts, and callers substitute zero when displaying
// (see FormatCurrency and TipResult.Display).
func Compute(in TipInput) TipResult {
	bill := parseLeadingFloat(in.BillAmount)
	people, peopleOK := parseLeadingInt(in.PeopleCount)

	pct := in.Tip.percent
	if in.Tip.custom {
		pct = parseLeadingFloat(in.CustomTip)
	}

	if math.IsNaN(bill) || math.IsInf(bill, 0) || bill <= 0 || !peopleOK || people <= 0 {
		return TipResult{Valid: false, TipPercent: pct}
	}

	tipAmount := bill * (pct / 100)
	total := bill + tipAmount
	n := float64(people)

	return TipResult{
		Valid:          true,
		TipPercent:     pct,
		TipAmount:      tipAmount,
		TotalAmount:    total,
		TipPerPerson:   tipAmount / n,
		TotalPerPerson: total / n,
	}
}

// Complete reports whether every amount is a finite number.
func (r TipResult) Complete() bool {
	for _, v := range []float64{r.TipAmount, r.TotalAmount, r.TipPerPerson, r.TotalPerPerson} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TipDisplay is a TipResult rendered for presentation.
type TipDisplay struct {
	Valid    bool
	Complete bool

	TipAmount      string
	TotalAmount    string
	TipPerPerson   string
	TotalPerPerson string
}

// Display formats the amounts as currency, showing non-finite values as $0.00.
func (r TipResult) Display() TipDisplay {
	return TipDisplay{
		Valid:          r.Valid,
		Complete:       r.Complete(),
		TipAmount:      FormatCurrency(r.TipAmount),
		TotalAmount:    FormatCurrency(r.TotalAmount),
		TipPerPerson:   FormatCurrency(r.TipPerPerson),
		TotalPerPerson: FormatCurrency(r.TotalPerPerson),
	}
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
