package vision

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"health-vision/api/internal/util"
)

type TaskType string

const (
	TaskFood             TaskType = "food"
	TaskPeel             TaskType = "peel"
	TaskGlucose          TaskType = "glucose"
	TaskSphygmomanometer TaskType = "sphygmomanometer"
)

// TaskSpec describes one classification task: what to ask the model and
// which structured answer to expect.
type TaskSpec struct {
	Type       TaskType
	Prompt     string
	SchemaName string
	Schema     map[string]any

	newResult func() Result
}

var taskTable = map[TaskType]TaskSpec{
	TaskFood: {
		Type:       TaskFood,
		Prompt:     FoodPrompt,
		SchemaName: "food_result",
		Schema:     mustSchema("food", FoodSchema),
		newResult:  func() Result { return &FoodResult{Foods: []FoodItem{}} },
	},
	TaskPeel: {
		Type:       TaskPeel,
		Prompt:     PeelPrompt,
		SchemaName: "peel_result",
		Schema:     mustSchema("peel", PeelSchema),
		newResult:  func() Result { return &PeelResult{} },
	},
	TaskGlucose: {
		Type:       TaskGlucose,
		Prompt:     GlucosePrompt,
		SchemaName: "glucose_result",
		Schema:     mustSchema("glucose", GlucoseSchema),
		newResult:  func() Result { return &GlucoseResult{} },
	},
	TaskSphygmomanometer: {
		Type:       TaskSphygmomanometer,
		Prompt:     PressurePrompt,
		SchemaName: "sphygmomanometer_result",
		Schema:     mustSchema("sphygmomanometer", PressureSchema),
		newResult:  func() Result { return &PressureResult{} },
	},
}

func mustSchema(name, raw string) map[string]any {
	m, err := util.ParseSchema(name, raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the built-in spec registered for t.
func Lookup(t TaskType) (TaskSpec, error) {
	return lookupIn(taskTable, t)
}

func lookupIn(table map[TaskType]TaskSpec, t TaskType) (TaskSpec, error) {
	spec, ok := table[t]
	if !ok {
		return TaskSpec{}, fmt.Errorf("%w: %q", ErrUnknownTaskType, t)
	}
	return spec, nil
}

// Tasks lists the known task types in a stable order.
func Tasks() []TaskType {
	return []TaskType{TaskFood, TaskPeel, TaskGlucose, TaskSphygmomanometer}
}

// Decode parses model output into the task's typed result. Every top-level
// field the schema requires must be present.
func (s TaskSpec) Decode(raw string) (Result, error) {
	txt := util.StripCodeFences(raw)
	if txt == "" {
		return nil, fmt.Errorf("%s: empty output", s.Type)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(txt), &fields); err != nil {
		return nil, fmt.Errorf("%s: bad JSON: %w", s.Type, err)
	}
	if req, ok := s.Schema["required"].([]any); ok {
		for _, k := range req {
			name, _ := k.(string)
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("%s: missing field %q", s.Type, name)
			}
		}
	}

	res := s.newResult()
	if err := json.Unmarshal([]byte(txt), res); err != nil {
		return nil, fmt.Errorf("%s: bad JSON: %w", s.Type, err)
	}
	if n, ok := res.(interface{ normalize() }); ok {
		n.normalize()
	}
	return res, nil
}

// loadPromptOverrides returns a copy of the task table where every task with
// a non-empty <dir>/<task>.txt file uses that file as its prompt.
func loadPromptOverrides(dir string) (map[TaskType]TaskSpec, error) {
	out := make(map[TaskType]TaskSpec, len(taskTable))
	for t, spec := range taskTable {
		out[t] = spec
	}
	if dir == "" {
		return out, nil
	}
	for t, spec := range out {
		p := filepath.Join(dir, string(t)+".txt")
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("prompt %s: %w", p, err)
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			spec.Prompt = s
			out[t] = spec
		}
	}
	return out, nil
}
