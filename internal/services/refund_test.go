package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRefundOrder_IsSorted(t *testing.T) {
	refunds := map[string]decimal.Decimal{
		"zoe":   decimal.NewFromInt(1),
		"alice": decimal.NewFromInt(2),
		"mike":  decimal.NewFromInt(3),
		"bob":   decimal.NewFromInt(4),
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"alice", "bob", "mike", "zoe"}, refundOrder(refunds))
	}

	assert.Empty(t, refundOrder(nil))
}
