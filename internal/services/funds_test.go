package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectFunds_CreatesThenIncrements(t *testing.T) {
	database := testutil.NewDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	project, _ := testutil.CreateProject(t, database, "garden")
	ctx := context.Background()

	funds, err := services.InjectFunds(ctx, database, project.ID, user.ID, testutil.Dec("20"), "")
	require.NoError(t, err)
	assert.True(t, funds.FundsLeft.Equal(testutil.Dec("20")))
	assert.Equal(t, models.DefaultCurrency, funds.Currency)
	assert.False(t, funds.IsAdmin)

	funds, err = services.InjectFunds(ctx, database, project.ID, user.ID, testutil.Dec("5.25"), "")
	require.NoError(t, err)
	assert.True(t, funds.FundsLeft.Equal(testutil.Dec("25.25")))

	var count int64
	require.NoError(t, database.Model(&models.UserProjectFunds{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInjectFunds_KeepsAdminFlag(t *testing.T) {
	database := testutil.NewDB(t)
	user := testutil.CreateUser(t, database, "admin", false)
	project, _ := testutil.CreateProject(t, database, "garden")
	testutil.GrantFunds(t, database, user.ID, project.ID, "1", true)

	funds, err := services.InjectFunds(context.Background(), database, project.ID, user.ID, testutil.Dec("9"), "")
	require.NoError(t, err)
	assert.True(t, funds.IsAdmin)
	assert.True(t, funds.FundsLeft.Equal(testutil.Dec("10")))
}

func TestInjectFunds_Rejects(t *testing.T) {
	database := testutil.NewDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	project, _ := testutil.CreateProject(t, database, "garden")
	ctx := context.Background()

	for _, amount := range []string{"0", "-5", "0.001"} {
		_, err := services.InjectFunds(ctx, database, project.ID, user.ID, testutil.Dec(amount), "")
		assert.ErrorIs(t, err, services.ErrInvalidAmount, amount)
	}

	_, err := services.InjectFunds(ctx, database, project.ID, "nobody", testutil.Dec("5"), "")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestInjectFunds_ConcurrentIncrements(t *testing.T) {
	database := testutil.NewDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	project, _ := testutil.CreateProject(t, database, "garden")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := services.InjectFunds(context.Background(), database, project.ID, user.ID, testutil.Dec("1.50"), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, testutil.FundsLeft(t, database, user.ID, project.ID).Equal(testutil.Dec("30")))
}

func TestGetFundsAndAdmin(t *testing.T) {
	database := testutil.NewDB(t)
	member := testutil.CreateUser(t, database, "member", false)
	admin := testutil.CreateUser(t, database, "admin", false)
	outsider := testutil.CreateUser(t, database, "outsider", false)
	project, _ := testutil.CreateProject(t, database, "garden")
	testutil.GrantFunds(t, database, member.ID, project.ID, "10", false)
	testutil.GrantFunds(t, database, admin.ID, project.ID, "0", true)
	ctx := context.Background()

	funds, err := services.GetFunds(ctx, database, member.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, funds.FundsLeft.Equal(testutil.Dec("10")))

	_, err = services.GetFunds(ctx, database, outsider.ID, project.ID)
	assert.ErrorIs(t, err, services.ErrNoProjectAccess)

	isAdmin, err := services.IsProjectAdmin(ctx, database, admin.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = services.IsProjectAdmin(ctx, database, member.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = services.IsProjectAdmin(ctx, database, outsider.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	rows, err := services.ListUserFunds(ctx, database, member.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "garden", rows[0].Project.Slug)
}

func TestInjectFunds_SumStaysExact(t *testing.T) {
	database := testutil.NewDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	project, _ := testutil.CreateProject(t, database, "garden")
	bucket := testutil.CreateBucket(t, database, project.ID, "Benches", models.BucketStatusOpen)
	ctx := context.Background()

	_, err := services.InjectFunds(ctx, database, project.ID, user.ID, testutil.Dec("0.1"), "")
	require.NoError(t, err)

	funds, err := services.InjectFunds(ctx, database, project.ID, user.ID, testutil.Dec("0.2"), "")
	require.NoError(t, err)
	assert.True(t, funds.FundsLeft.Equal(testutil.Dec("0.3")), "balance is %s", funds.FundsLeft)

	balance := testutil.FundsLeft(t, database, user.ID, project.ID)
	assert.True(t, balance.Equal(testutil.Dec("0.3")), "stored balance is %s", balance)
	assert.True(t, services.ValidAmount(balance))

	// The whole balance can be pledged.
	result, err := services.ReconcilePledge(ctx, database, services.PledgeRequest{
		UserID: user.ID, ProjectID: project.ID, BucketID: bucket.ID, Amount: balance,
	})
	require.NoError(t, err)
	assert.True(t, result.FundsLeft.IsZero())
}
