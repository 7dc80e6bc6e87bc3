package core

import "math"

// DailySummary is the derived view of one principal's day. It is rebuilt
// from entries on every request.
type DailySummary struct {
	Date          string
	Goals         Goals
	TotalCalories int64
	TotalProtein  int64
	TotalFat      int64
	TotalCarbs    int64
	TotalBurned   int64
	NetCalories   int64
	Food          []FoodEntry
	Fitness       []FitnessEntry
}

// Progress holds percent-of-goal values, rounded and not capped.
type Progress struct {
	Calories int64 `json:"calories"`
	Protein  int64 `json:"protein"`
	Fat      int64 `json:"fat"`
	Carbs    int64 `json:"carbs"`
}

// Summarize reduces the given entries for date against p's goals. Entries
// are expected to be pre-filtered to p and date.
func Summarize(p Principal, date string, food []FoodEntry, fitness []FitnessEntry) DailySummary {
	s := DailySummary{
		Date:    date,
		Goals:   p.Goals,
		Food:    make([]FoodEntry, 0, len(food)),
		Fitness: make([]FitnessEntry, 0, len(fitness)),
	}
	for _, f := range food {
		s.TotalCalories = addSat(s.TotalCalories, f.Calories)
		s.TotalProtein = addSat(s.TotalProtein, f.Protein)
		s.TotalFat = addSat(s.TotalFat, f.Fat)
		s.TotalCarbs = addSat(s.TotalCarbs, f.Carbs)
		s.Food = append(s.Food, f)
	}
	for _, f := range fitness {
		s.TotalBurned = addSat(s.TotalBurned, f.KcalBurned)
		s.Fitness = append(s.Fitness, f)
	}
	s.NetCalories = s.TotalCalories - s.TotalBurned
	return s
}

// Progress compares consumed totals with goals.
func (s DailySummary) Progress() Progress {
	return Progress{
		Calories: percent(s.TotalCalories, s.Goals.Calories),
		Protein:  percent(s.TotalProtein, s.Goals.Protein),
		Fat:      percent(s.TotalFat, s.Goals.Fat),
		Carbs:    percent(s.TotalCarbs, s.Goals.Carbs),
	}
}

// addSat adds two non-negative totals, clamping at math.MaxInt64.
func addSat(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

func percent(consumed, target int64) int64 {
	if target <= 0 {
		return 0
	}
	pct := math.Round(float64(consumed) * 100 / float64(target))
	if pct >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(pct)
}
