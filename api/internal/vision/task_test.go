package vision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_AllTasks(t *testing.T) {
	for _, tt := range Tasks() {
		spec, err := Lookup(tt)
		require.NoError(t, err, tt)
		assert.Equal(t, tt, spec.Type)
		assert.NotEmpty(t, spec.Prompt)
		assert.NotEmpty(t, spec.SchemaName)
		assert.Equal(t, "object", spec.Schema["type"])
		assert.Equal(t, false, spec.Schema["additionalProperties"])
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("pulse")
	assert.True(t, errors.Is(err, ErrUnknownTaskType))
}

func TestDecode_Food(t *testing.T) {
	spec, _ := Lookup(TaskFood)

	res, err := spec.Decode("```json\n{\"foods\":[{\"name\":\"bibimbap\",\"carbohydrates\":80,\"protein\":20,\"fat\":15,\"sodium\":900}]}\n```")
	require.NoError(t, err)
	food := res.(*FoodResult)
	require.Len(t, food.Foods, 1)
	assert.Equal(t, "bibimbap", food.Foods[0].Name)
	assert.Equal(t, 900, food.Foods[0].Sodium)

	res, err = spec.Decode(`{"foods":null}`)
	require.NoError(t, err)
	assert.NotNil(t, res.(*FoodResult).Foods)
	assert.Equal(t, 1, res.Guess())
}

func TestDecode_Rejects(t *testing.T) {
	peel, _ := Lookup(TaskPeel)
	glucose, _ := Lookup(TaskGlucose)

	_, err := peel.Decode("")
	assert.Error(t, err)

	_, err = peel.Decode("I can see a pill")
	assert.Error(t, err)

	_, err = peel.Decode(`{}`)
	assert.ErrorContains(t, err, `missing field "present"`)

	_, err = glucose.Decode(`{"isDetected":true}`)
	assert.ErrorContains(t, err, `missing field "value"`)

	_, err = glucose.Decode(`{"isDetected":"yes","value":1}`)
	assert.Error(t, err)
}

func TestLoadPromptOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "peel.txt"), []byte("  Is there a pill?\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "food.txt"), []byte("   "), 0o644))

	tasks, err := loadPromptOverrides(dir)
	require.NoError(t, err)

	assert.Equal(t, "Is there a pill?", tasks[TaskPeel].Prompt)
	assert.Equal(t, FoodPrompt, tasks[TaskFood].Prompt)
	assert.Equal(t, GlucosePrompt, tasks[TaskGlucose].Prompt)
	assert.Equal(t, PeelPrompt, taskTable[TaskPeel].Prompt, "static table must stay untouched")
}
