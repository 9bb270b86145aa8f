package services

import (
	"github.com/divizend/dreaming/internal/models"
	"github.com/shopspring/decimal"
)

const (
	FundingNotRequired = "NO_FUNDING_REQUIRED"
	FundingFull        = "FULLY_FUNDED"
	FundingPartial     = "PARTIALLY_FUNDED"
)

var hundred = decimal.NewFromInt(100)

type Progress struct {
	TotalBudget   decimal.Decimal `json:"totalBudget"`
	TotalPledged  decimal.Decimal `json:"totalPledged"`
	Percentage    int64           `json:"percentage"`
	FundingStatus string          `json:"fundingStatus"`
}

// ProgressPercentage is round(100 * pledged / budget). A bucket without a
// budget counts as fully funded. The result is not capped at 100.
func ProgressPercentage(totalBudget, totalPledged decimal.Decimal) int64 {
	if !totalBudget.IsPositive() {
		return 100
	}

	return totalPledged.Mul(hundred).Div(totalBudget).Round(0).IntPart()
}

func ComputeProgress(items []models.BudgetItem, pledges []models.Pledge) Progress {
	totalBudget := decimal.Zero
	for _, item := range items {
		totalBudget = totalBudget.Add(item.Amount)
	}

	totalPledged := decimal.Zero
	for _, pledge := range pledges {
		totalPledged = totalPledged.Add(pledge.Amount)
	}

	percentage := ProgressPercentage(totalBudget, totalPledged)

	status := FundingPartial
	switch {
	case !totalBudget.IsPositive():
		status = FundingNotRequired
	case percentage >= 100:
		status = FundingFull
	}

	return Progress{
		TotalBudget:   totalBudget,
		TotalPledged:  totalPledged,
		Percentage:    percentage,
		FundingStatus: status,
	}
}

func BucketProgress(bucket models.Bucket) Progress {
	return ComputeProgress(bucket.BudgetItems, bucket.Pledges)
}
