package vision

const FoodPrompt = `You are a nutrition assistant. Look at the photo and list every distinct food or dish that is visible.
For each item estimate, for the portion shown, the amount of carbohydrates, protein and fat in grams and sodium in milligrams.
Use whole numbers. Use the common name of the dish.
If the photo contains no food, return an empty "foods" list.`

const FoodSchema = `{
  "type": "object",
  "properties": {
    "foods": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name":          {"type": "string",  "description": "dish or food name"},
          "carbohydrates": {"type": "integer", "description": "grams"},
          "protein":       {"type": "integer", "description": "grams"},
          "fat":           {"type": "integer", "description": "grams"},
          "sodium":        {"type": "integer", "description": "milligrams"}
        }
      }
    }
  }
}`

const PeelPrompt = `Look at the photo. Decide whether a medication pill, or the peeled-off backing of a pill blister pack, is present in the image.
Answer "present": true only when you can clearly see it.`

const PeelSchema = `{
  "type": "object",
  "properties": {
    "present": {"type": "boolean"}
  }
}`

const GlucosePrompt = `Look at the photo. Decide whether the display of a blood glucose meter is visible and readable.
If it is, set "isDetected" to true and "value" to the number shown on the display (mg/dL).
If it is not, set "isDetected" to false and "value" to 0.`

const GlucoseSchema = `{
  "type": "object",
  "properties": {
    "isDetected": {"type": "boolean"},
    "value":      {"type": "integer", "description": "reading in mg/dL, 0 when not detected"}
  }
}`

const PressurePrompt = `Look at the photo. Decide whether the display of a blood pressure monitor (sphygmomanometer) is visible and readable.
If it is, set "isDetected" to true and read the systolic (upper) and diastolic (lower) values in mmHg.
If it is not, set "isDetected" to false and both values to 0.`

const PressureSchema = `{
  "type": "object",
  "properties": {
    "isDetected": {"type": "boolean"},
    "systolic":   {"type": "integer", "description": "mmHg, 0 when not detected"},
    "diastolic":  {"type": "integer", "description": "mmHg, 0 when not detected"}
  }
}`
