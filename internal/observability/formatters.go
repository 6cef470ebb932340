package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// boxWidth is the width of formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendation outputs the inputs and result of a recommendation.
func (p *Printer) PrintRecommendation(bio nutrition.BiometricInput, goal *nutrition.GoalInput, result *nutrition.RecommendationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Weight:       %.1f lb\n", bio.CurrentWeight)
	fmt.Fprintf(&sb, "Height:       %.1f in\n", bio.Height)
	fmt.Fprintf(&sb, "Age:          %d\n", bio.Age)
	fmt.Fprintf(&sb, "Gender:       %s\n", bio.Gender)
	fmt.Fprintf(&sb, "Activity:     %s\n", bio.ActivityLevel)
	sb.WriteString(describeGoal(goal))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "BMR:          %.1f kcal\n", result.BMR)
	fmt.Fprintf(&sb, "Maintenance:  %d kcal\n", result.MaintenanceCalories)
	fmt.Fprintf(&sb, "Recommended:  %d kcal\n", result.RecommendedCalories)
	fmt.Fprintf(&sb, "Macros:       P %dg  F %dg  C %dg",
		result.Macronutrients.Protein, result.Macronutrients.Fat, result.Macronutrients.Carbs)

	p.printBox("CALORIE RECOMMENDATION", sb.String())
}

func describeGoal(goal *nutrition.GoalInput) string {
	switch {
	case goal == nil:
		return "Goal:         maintain\n"
	case goal.WeeklyWeightChange != nil:
		return fmt.Sprintf("Goal:         %+.2f lb/week\n", *goal.WeeklyWeightChange)
	case goal.GoalWeight != nil && goal.TargetDate != nil:
		return fmt.Sprintf("Goal:         %.1f lb by %s\n", *goal.GoalWeight, goal.TargetDate.Format("2006-01-02"))
	default:
		return "Goal:         maintain\n"
	}
}

// PrintEstimate outputs a nutrition estimate and where it came from.
func (p *Printer) PrintEstimate(est nutrition.NutritionEstimate, source, tier string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Meal:      %s\n", est.Description)
	if tier != "" {
		fmt.Fprintf(&sb, "Source:    %s (%s)\n", source, tier)
	} else {
		fmt.Fprintf(&sb, "Source:    %s\n", source)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Calories:  %d kcal\n", est.Calories)
	fmt.Fprintf(&sb, "Protein:   %d g\n", est.Protein)
	fmt.Fprintf(&sb, "Carbs:     %d g\n", est.Carbs)
	fmt.Fprintf(&sb, "Fat:       %d g", est.Fat)

	p.printBox("NUTRITION ESTIMATE", sb.String())
}

// PrintFoodTable lists imported food entries, up to limit rows.
func (p *Printer) PrintFoodTable(entries []nutrition.FoodEntry, limit int) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Entries: %d\n\n", len(entries))
	count := min(len(entries), limit)
	for i := 0; i < count; i++ {
		e := entries[i]
		fmt.Fprintf(&sb, "  • %-18s %6.0f kcal  P%.1f C%.1f F%.1f\n",
			e.Keyword, e.CaloriesPerUnit, e.ProteinPerUnit, e.CarbsPerUnit, e.FatPerUnit)
	}
	if len(entries) > count {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(entries)-count)
	}

	p.printBox("FOOD TABLE", strings.TrimSuffix(sb.String(), "\n"))
}
