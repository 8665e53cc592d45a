package score

import (
	"fmt"
	"testing"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// resultWith builds a result with n placeholder values per category
func resultWith(counts map[model.Category]int) model.Result {
	result := make(model.Result)
	for category, n := range counts {
		values := make([]string, n)
		for i := range values {
			values[i] = fmt.Sprintf("%s-%d", category, i)
		}
		result.Set(category, model.StringBucket(values))
	}
	return result
}

func TestScorer_Direct_Clamped(t *testing.T) {
	scorer := NewScorer()

	result := resultWith(map[model.Category]int{model.CategoryPhone: 3})

	if got := scorer.Direct(result); got != 100 {
		t.Errorf("Expected direct 100 for three phones, got %v", got)
	}
}

func TestScorer_Direct_Weights(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name   string
		counts map[model.Category]int
		want   float64
	}{
		{"phone", map[model.Category]int{model.CategoryPhone: 1}, 35},
		{"email", map[model.Category]int{model.CategoryEmail: 1}, 30},
		{"person", map[model.Category]int{model.CategoryPerson: 1}, 15},
		{"postal", map[model.Category]int{model.CategoryPostal: 1}, 40},
		{"date", map[model.Category]int{model.CategoryDate: 1}, 10},
		{"age", map[model.Category]int{model.CategoryAge: 1}, 5},
		{"two persons", map[model.Category]int{model.CategoryPerson: 2}, 30},
		{"places do not count", map[model.Category]int{model.CategoryStation: 3, model.CategoryPlace: 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Direct(resultWith(tt.counts)); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScorer_Indirect_Curve(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 10},
		{2, 28},
		{3, 51},
		{4, 80},
		{5, 100},
		{9, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			result := resultWith(map[model.Category]int{model.CategoryPlace: tt.n})
			if got := scorer.Indirect(result); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScorer_Indirect_SumsQuasiIdentifiers(t *testing.T) {
	scorer := NewScorer()

	result := resultWith(map[model.Category]int{
		model.CategoryStation:     1,
		model.CategoryHospital:    1,
		model.CategoryTouristSpot: 1,
		model.CategoryDate:        1,
		model.Category("school"):  3, // not scored
		model.CategoryPerson:      2, // direct only
	})

	if got := scorer.Indirect(result); got != 80 {
		t.Errorf("Expected indirect 80 for n=4, got %d", got)
	}
}

func TestScorer_Calculate_PersonAgePhone(t *testing.T) {
	scorer := NewScorer()

	result := resultWith(map[model.Category]int{
		model.CategoryPerson: 1,
		model.CategoryAge:    1,
		model.CategoryPhone:  1,
	})

	score := scorer.Calculate(result)

	if score.Direct != 55 {
		t.Errorf("Expected direct 55, got %v", score.Direct)
	}
	if score.Indirect != 0 {
		t.Errorf("Expected indirect 0, got %d", score.Indirect)
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Calculate(model.Result{})

	if score.Direct != 0 || score.Indirect != 0 {
		t.Errorf("Expected 0/0 for empty result, got %v/%d", score.Direct, score.Indirect)
	}

	// Direct and indirect signals are always present
	if len(score.Signals) != 2 {
		t.Errorf("Expected 2 signals, got %d", len(score.Signals))
	}
}

func TestScorer_Calculate_NilResult(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Calculate(nil)

	if score.Direct != 0 || score.Indirect != 0 {
		t.Errorf("Expected 0/0 for nil result, got %v/%d", score.Direct, score.Indirect)
	}
}

func TestScorer_Calculate_DateDualUse(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Calculate(resultWith(map[model.Category]int{model.CategoryDate: 1}))

	if score.Direct != 10 {
		t.Errorf("Expected direct 10, got %v", score.Direct)
	}
	if score.Indirect != 10 {
		t.Errorf("Expected indirect 10, got %d", score.Indirect)
	}

	hasDateSignal := false
	for _, signal := range score.Signals {
		if signal.Type == model.SignalDateDualUse {
			hasDateSignal = true
		}
	}
	if !hasDateSignal {
		t.Error("Expected date dual-use signal")
	}
}

func TestScorer_Calculate_SignalData(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Calculate(resultWith(map[model.Category]int{
		model.CategoryPhone: 3,
		model.CategoryPlace: 2,
	}))

	var direct, unresolved *model.Signal
	for i := range score.Signals {
		switch score.Signals[i].Type {
		case model.SignalDirectIdentifiers:
			direct = &score.Signals[i]
		case model.SignalUnresolvedPlaces:
			unresolved = &score.Signals[i]
		}
	}

	if direct == nil {
		t.Fatal("Expected direct identifiers signal")
	}
	if direct.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity at 100%%, got %s", direct.Severity)
	}
	if direct.Data["raw"] != 105.0 {
		t.Errorf("Expected raw 105, got %v", direct.Data["raw"])
	}
	if direct.Data["clamped"] != true {
		t.Error("Expected clamped flag")
	}
	if _, ok := direct.Data["formula"]; !ok {
		t.Error("Expected formula in signal data")
	}

	if unresolved == nil {
		t.Fatal("Expected unresolved places signal")
	}
	if unresolved.Data["count"] != 2 {
		t.Errorf("Expected 2 unresolved places, got %v", unresolved.Data["count"])
	}
}
