package vision

import (
	"encoding/json"
	"fmt"
)

// Result is a schema-conformant answer of the model. Guess is the
// task-specific flag sent back to clients next to the result fields.
type Result interface {
	Guess() int
}

type FoodItem struct {
	Name          string `json:"name"`
	Carbohydrates int    `json:"carbohydrates"`
	Protein       int    `json:"protein"`
	Fat           int    `json:"fat"`
	Sodium        int    `json:"sodium"`
}

type FoodResult struct {
	Foods []FoodItem `json:"foods"`
}

// Guess is 1 when no food was recognised.
func (r FoodResult) Guess() int {
	if len(r.Foods) == 0 {
		return 1
	}
	return 0
}

func (r *FoodResult) normalize() {
	if r.Foods == nil {
		r.Foods = []FoodItem{}
	}
}

type PeelResult struct {
	Present bool `json:"present"`
}

func (r PeelResult) Guess() int { return 1 - b2i(r.Present) }

type GlucoseResult struct {
	IsDetected bool `json:"isDetected"`
	Value      int  `json:"value"`
}

func (r GlucoseResult) Guess() int { return 1 - b2i(r.IsDetected) }

type PressureResult struct {
	IsDetected bool `json:"isDetected"`
	Systolic   int  `json:"systolic"`
	Diastolic  int  `json:"diastolic"`
}

func (r PressureResult) Guess() int { return 1 - b2i(r.IsDetected) }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Payload is the HTTP response body: the result fields plus "guess".
type Payload struct {
	Result Result
	Guess  int
}

func NewPayload(r Result) Payload {
	return Payload{Result: r, Guess: r.Guess()}
}

func (p Payload) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(p.Result)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("payload: result is not an object: %w", err)
	}
	m["guess"] = p.Guess
	return json.Marshal(m)
}
