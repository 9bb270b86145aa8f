package services

import (
	"testing"

	"github.com/divizend/dreaming/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func items(amounts ...string) []models.BudgetItem {
	out := make([]models.BudgetItem, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, models.BudgetItem{Amount: decimal.RequireFromString(a)})
	}
	return out
}

func pledges(amounts ...string) []models.Pledge {
	out := make([]models.Pledge, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, models.Pledge{Amount: decimal.RequireFromString(a)})
	}
	return out
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name       string
		items      []models.BudgetItem
		pledges    []models.Pledge
		budget     string
		pledged    string
		percentage int64
		status     string
	}{
		{"no budget", nil, nil, "0", "0", 100, FundingNotRequired},
		{"no budget with pledges", nil, pledges("5"), "0", "5", 100, FundingNotRequired},
		{"nothing pledged", items("40"), nil, "40", "0", 0, FundingPartial},
		{"partial", items("25", "15"), pledges("30"), "40", "30", 75, FundingPartial},
		{"exactly funded", items("40"), pledges("10", "30"), "40", "40", 100, FundingFull},
		{"overfunded is not capped", items("40"), pledges("50"), "40", "50", 125, FundingFull},
		{"rounds half up", items("3"), pledges("2"), "3", "2", 67, FundingPartial},
		{"just below full rounds to full", items("1000"), pledges("999.99"), "1000", "999.99", 100, FundingFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := ComputeProgress(tt.items, tt.pledges)

			assert.True(t, progress.TotalBudget.Equal(decimal.RequireFromString(tt.budget)))
			assert.True(t, progress.TotalPledged.Equal(decimal.RequireFromString(tt.pledged)))
			assert.Equal(t, tt.percentage, progress.Percentage)
			assert.Equal(t, tt.status, progress.FundingStatus)
		})
	}
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.Zero))
	assert.True(t, ValidAmount(decimal.RequireFromString("12.34")))
	assert.True(t, ValidAmount(decimal.RequireFromString("12.340")))
	assert.False(t, ValidAmount(decimal.RequireFromString("12.345")))
	assert.False(t, ValidAmount(decimal.RequireFromString("-0.01")))

	assert.False(t, ValidPositiveAmount(decimal.Zero))
	assert.True(t, ValidPositiveAmount(decimal.RequireFromString("0.01")))
}
