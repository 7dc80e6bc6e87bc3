package core

import (
	"time"
)

// DateLayout is the only accepted calendar day representation.
const DateLayout = "2006-01-02"

const (
	DefaultCalorieGoal = 2000
	DefaultProteinGoal = 150
	DefaultFatGoal     = 70
	DefaultCarbsGoal   = 250
)

// EntryKind distinguishes the two loggable record types.
type EntryKind string

const (
	KindFood    EntryKind = "food"
	KindFitness EntryKind = "fitness"
)

func (k EntryKind) String() string { return string(k) }

// IsValid reports whether k names a known entry kind.
func (k EntryKind) IsValid() bool {
	return k == KindFood || k == KindFitness
}

type (
	Goals struct {
		Calories int64 `json:"calorie_goal"`
		Protein  int64 `json:"protein_goal"`
		Fat      int64 `json:"fat_goal"`
		Carbs    int64 `json:"carbs_goal"`
	}

	Principal struct {
		ID       int64
		Username string
		Goals    Goals
	}

	FoodEntry struct {
		ID       int64  `json:"id"`
		Owner    int64  `json:"-"`
		Date     string `json:"date"`
		Food     string `json:"food"`
		Calories int64  `json:"calories"`
		Protein  int64  `json:"protein"`
		Fat      int64  `json:"fat"`
		Carbs    int64  `json:"carbs"`
	}

	FitnessEntry struct {
		ID         int64  `json:"id"`
		Owner      int64  `json:"-"`
		Date       string `json:"date"`
		Exercise   string `json:"exercise"`
		KcalBurned int64  `json:"kcal_burned"`
	}
)

// DefaultGoals returns the goals assigned at registration.
func DefaultGoals() Goals {
	return Goals{
		Calories: DefaultCalorieGoal,
		Protein:  DefaultProteinGoal,
		Fat:      DefaultFatGoal,
		Carbs:    DefaultCarbsGoal,
	}
}

// Owned is implemented by every entry that belongs to a principal.
type Owned interface {
	OwnerID() int64
}

func (e FoodEntry) OwnerID() int64    { return e.Owner }
func (e FitnessEntry) OwnerID() int64 { return e.Owner }

func (FoodEntry) Kind() EntryKind    { return KindFood }
func (FitnessEntry) Kind() EntryKind { return KindFitness }

// Today formats the current local day in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDay parses a YYYY-MM-DD string strictly.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
