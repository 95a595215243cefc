package services

import (
	"encoding/json"
	"strings"

	"gigexecs-backend/internal/models"
)

type DeliveryTime struct {
	Min int
	Max int
}

var deliveryTimes = map[string]DeliveryTime{
	"less-than-1-month": {Min: 1, Max: 30},
	"1-3-months":        {Min: 30, Max: 90},
	"3-6-months":        {Min: 90, Max: 180},
	"6-12-months":       {Min: 180, Max: 365},
	"12-months-plus":    {Min: 365, Max: 730},
}

var defaultDeliveryTime = DeliveryTime{Min: 1, Max: 30}

// DeriveDeliveryTime maps a duration label to a day range. Unknown or empty
// labels get the shortest range.
func DeriveDeliveryTime(label string) DeliveryTime {
	if dt, ok := deliveryTimes[strings.TrimSpace(label)]; ok {
		return dt
	}
	return defaultDeliveryTime
}

// DurationLabel is the inverse of DeriveDeliveryTime, used to prefill the
// edit form. It returns "" for ranges that did not come from the table.
func DurationLabel(min, max int) string {
	for label, dt := range deliveryTimes {
		if dt.Min == min && dt.Max == max {
			return label
		}
	}
	return ""
}

type Budget struct {
	Min              *float64
	Max              *float64
	DesiredAmountMin *float64
	DesiredAmountMax *float64
}

// DeriveBudget turns the single budget figure into the stored range.
// A to-be-confirmed budget is stored as nulls whatever the figure says;
// otherwise min and max carry the same value.
func DeriveBudget(raw models.NumberString, toBeConfirmed bool) (Budget, error) {
	if toBeConfirmed {
		return Budget{}, nil
	}
	if raw.IsEmpty() {
		return Budget{}, &MissingFieldError{Field: "budget"}
	}
	amount, ok := raw.PositiveAmount()
	if !ok {
		return Budget{}, &InvalidNumberError{Field: "budget", Value: raw.String()}
	}
	return Budget{Min: &amount, Max: &amount, DesiredAmountMin: &amount, DesiredAmountMax: &amount}, nil
}

// encodeQuestions keeps the non-blank question texts, or nil when none remain.
func encodeQuestions(questions []models.ScreeningQuestion) (*string, error) {
	texts := make([]string, 0, len(questions))
	for _, q := range questions {
		if text := strings.TrimSpace(q.Question); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func encodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSkillIDs reads the JSON id list stored in projects.skills_required.
// Corrupt or missing values give an empty list.
func DecodeSkillIDs(raw string) ([]int64, bool) {
	ids := []int64{}
	if strings.TrimSpace(raw) == "" {
		return ids, true
	}
	var values []json.Number
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []int64{}, false
	}
	for _, v := range values {
		id, err := models.NumberString(v.String()).Int64()
		if err != nil {
			return []int64{}, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// DecodeQuestions reads projects.screening_questions. Corrupt values give an
// empty list.
func DecodeQuestions(raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, true
	}
	var texts []string
	if err := json.Unmarshal([]byte(raw), &texts); err != nil {
		return []string{}, false
	}
	if texts == nil {
		texts = []string{}
	}
	return texts, true
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
