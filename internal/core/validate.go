package core

import (
	"strings"
	"time"
)

// ValidateFood checks a food submission and builds the entry for owner.
// Any user_id carried by the payload is ignored.
func ValidateFood(raw Payload, owner int64) (FoodEntry, error) {
	f, err := raw.check(foodSchema)
	if err != nil {
		return FoodEntry{}, err
	}
	return FoodEntry{
		Owner:    owner,
		Date:     f.text["date"],
		Food:     f.text["food"],
		Calories: f.num["calories"],
		Protein:  f.num["protein"],
		Fat:      f.num["fat"],
		Carbs:    f.num["carbs"],
	}, nil
}

// ValidateFitness checks a fitness submission and builds the entry for owner.
func ValidateFitness(raw Payload, owner int64) (FitnessEntry, error) {
	f, err := raw.check(fitnessSchema)
	if err != nil {
		return FitnessEntry{}, err
	}
	return FitnessEntry{
		Owner:      owner,
		Date:       f.text["date"],
		Exercise:   f.text["exercise"],
		KcalBurned: f.num["kcal_burned"],
	}, nil
}

// ValidateGoals requires all four goals; partial updates are rejected.
func ValidateGoals(raw Payload) (Goals, error) {
	f, err := raw.check(goalsSchema)
	if err != nil {
		return Goals{}, err
	}
	return Goals{
		Calories: f.num["calorie_goal"],
		Protein:  f.num["protein_goal"],
		Fat:      f.num["fat_goal"],
		Carbs:    f.num["carbs_goal"],
	}, nil
}

// AuthorizeMutation allows a change only when entry exists and belongs to
// principalID. Missing and foreign entries yield the same error.
func AuthorizeMutation[E Owned](principalID int64, entry *E) error {
	if entry == nil || (*entry).OwnerID() != principalID {
		return ErrNotFoundOrUnauthorized
	}
	return nil
}

// MaxSecretBytes is the longest secret the password hash accepts.
const MaxSecretBytes = 72

// ValidateCredentials checks a registration or login pair and returns the
// trimmed username. The secret is used verbatim.
func ValidateCredentials(username, secret string) (string, error) {
	verr := &ValidationError{}
	username = strings.TrimSpace(username)
	if username == "" {
		verr.add("username", ErrMissingField, "field is required")
	}
	switch {
	case secret == "":
		verr.add("password", ErrMissingField, "field is required")
	case len(secret) > MaxSecretBytes:
		verr.add("password", ErrTypeMismatch, "must be at most 72 bytes")
	}
	return username, verr.orNil()
}

// MaxRangeDays bounds multi-day summaries.
const MaxRangeDays = 93

// CheckDay validates a single YYYY-MM-DD value supplied under field.
func CheckDay(field, value string) error {
	if _, err := ParseDay(value); err != nil {
		verr := &ValidationError{}
		verr.add(field, ErrInvalidDate, "invalid date format, use YYYY-MM-DD")
		return verr
	}
	return nil
}

// ValidateRange checks an inclusive day range and returns its bounds.
func ValidateRange(from, to string) (time.Time, time.Time, error) {
	verr := &ValidationError{}
	start, err := ParseDay(from)
	if err != nil {
		verr.add("from", ErrInvalidDate, "invalid date format, use YYYY-MM-DD")
	}
	end, err := ParseDay(to)
	if err != nil {
		verr.add("to", ErrInvalidDate, "invalid date format, use YYYY-MM-DD")
	}
	if len(verr.Fields) == 0 {
		switch days := int(end.Sub(start).Hours()/24) + 1; {
		case days < 1:
			verr.add("to", ErrInvalidDate, "must not be before from")
		case days > MaxRangeDays:
			verr.add("to", ErrInvalidDate, "range must cover at most 93 days")
		}
	}
	if err := verr.orNil(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
