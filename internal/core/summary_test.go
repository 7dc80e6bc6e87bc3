package core

import (
	"math"
	"reflect"
	"testing"
)

func TestSummarizeEmpty(t *testing.T) {
	p := Principal{ID: 1, Goals: DefaultGoals()}
	s := Summarize(p, "2023-10-15", nil, nil)
	if s.TotalCalories != 0 || s.TotalProtein != 0 || s.TotalFat != 0 || s.TotalCarbs != 0 || s.TotalBurned != 0 || s.NetCalories != 0 {
		t.Fatalf("expected zero sums, got %+v", s)
	}
	if s.Goals != DefaultGoals() {
		t.Fatalf("goals not carried: %+v", s.Goals)
	}
	if s.Food == nil || s.Fitness == nil {
		t.Fatalf("entry lists should be empty, not nil")
	}
}

func TestSummarizeTotals(t *testing.T) {
	p := Principal{ID: 1, Goals: Goals{Calories: 2000, Protein: 100, Fat: 50, Carbs: 200}}
	food := []FoodEntry{
		{ID: 1, Owner: 1, Date: "2023-10-15", Food: "Apple", Calories: 95, Carbs: 25},
		{ID: 2, Owner: 1, Date: "2023-10-15", Food: "Eggs", Calories: 155, Protein: 13, Fat: 11, Carbs: 1},
	}
	fitness := []FitnessEntry{
		{ID: 3, Owner: 1, Date: "2023-10-15", Exercise: "Running", KcalBurned: 300},
		{ID: 4, Owner: 1, Date: "2023-10-15", Exercise: "Walk", KcalBurned: 100},
	}
	s := Summarize(p, "2023-10-15", food, fitness)

	if s.TotalCalories != 250 || s.TotalProtein != 13 || s.TotalFat != 11 || s.TotalCarbs != 26 {
		t.Fatalf("unexpected food totals %+v", s)
	}
	if s.TotalBurned != 400 || s.NetCalories != -150 {
		t.Fatalf("unexpected burn totals %+v", s)
	}
	if !reflect.DeepEqual(s.Food, food) || !reflect.DeepEqual(s.Fitness, fitness) {
		t.Fatalf("entry lists not carried")
	}

	again := Summarize(p, "2023-10-15", food, fitness)
	if !reflect.DeepEqual(s, again) {
		t.Fatalf("summarize should be idempotent")
	}

	pr := s.Progress()
	if pr != (Progress{Calories: 13, Protein: 13, Fat: 22, Carbs: 13}) {
		t.Fatalf("unexpected progress %+v", pr)
	}
}

func TestProgressZeroGoal(t *testing.T) {
	s := DailySummary{TotalCalories: 500}
	if s.Progress().Calories != 0 {
		t.Fatalf("zero goal must not divide")
	}
}

func TestSummarizeSaturates(t *testing.T) {
	p := Principal{ID: 1, Goals: DefaultGoals()}
	food := []FoodEntry{
		{ID: 1, Owner: 1, Calories: math.MaxInt64, Protein: 1},
		{ID: 2, Owner: 1, Calories: math.MaxInt64, Protein: math.MaxInt64},
	}
	fitness := []FitnessEntry{{ID: 3, Owner: 1, KcalBurned: 10}}

	s := Summarize(p, "2023-10-15", food, fitness)
	if s.TotalCalories != math.MaxInt64 || s.TotalProtein != math.MaxInt64 {
		t.Fatalf("totals wrapped: %+v", s)
	}
	if s.NetCalories != math.MaxInt64-10 {
		t.Fatalf("net = %d", s.NetCalories)
	}
	if pr := s.Progress(); pr.Calories <= 0 || pr.Protein <= 0 {
		t.Fatalf("progress wrapped: %+v", pr)
	}
}
