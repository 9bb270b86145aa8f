package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

func getIDParam(ctx *gin.Context, name, label string) (string, error) {
	id := strings.TrimSpace(ctx.Param(name))

	if id == "" {
		return "", errors.New(label + " not found")
	}

	if len(id) > 64 {
		return "", errors.New("Invalid " + label)
	}

	return id, nil
}

func GetBucketID(ctx *gin.Context) (string, error) {
	return getIDParam(ctx, "bucketId", "Bucket ID")
}

func GetBudgetItemID(ctx *gin.Context) (string, error) {
	return getIDParam(ctx, "itemId", "Budget item ID")
}
