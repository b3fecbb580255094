package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

func newCasino(t *testing.T, st *snapshot.Store, c *clock, outcome string) *CasinoService {
	t.Helper()
	svc := NewCasinoService(st, logging.Nop())
	svc.now = c.Now
	svc.roll = func() string { return outcome }
	return svc
}

func setupCasino(t *testing.T, settings models.Settings, outcome string) (*snapshot.Store, *CasinoService, *models.User) {
	t.Helper()
	st := newTestStore(t, settings)
	c := newClock()
	u := register(t, newUserService(t, st, c), aliceRequest())
	return st, newCasino(t, st, c, outcome), u
}

func TestPlaceBet_Win(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{}, ChoiceEven)

	bet, err := svc.PlaceBet(context.Background(), u.ID, ChoiceEven, 100)
	require.NoError(t, err)
	assert.Equal(t, GameParImpar, bet.Game)
	assert.Equal(t, ChoiceEven, bet.Outcome)
	assert.Equal(t, int64(200), bet.Payout)

	g := st.Data()
	got := g.FindUser(u.ID)
	assert.Equal(t, int64(1100), got.Balance)

	// bonus, stake, payout
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, models.KindBetStake, got.Transactions[1].Kind)
	assert.Equal(t, int64(-100), got.Transactions[1].Amount)
	assert.Equal(t, int64(900), got.Transactions[1].BalanceAfter)
	assert.Equal(t, models.KindBetPayout, got.Transactions[2].Kind)
	assert.Equal(t, int64(200), got.Transactions[2].Amount)
	assert.Equal(t, int64(1100), got.Transactions[2].BalanceAfter)

	assert.Len(t, g.AllTransactions, 3)
	require.Len(t, g.AllBets, 1)
	assert.Equal(t, bet.ID, g.AllBets[0].ID)
	require.Len(t, got.Bets, 1)
}

func TestPlaceBet_Loss(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{}, ChoiceOdd)

	bet, err := svc.PlaceBet(context.Background(), u.ID, ChoiceEven, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bet.Payout)

	got := st.Data().FindUser(u.ID)
	assert.Equal(t, int64(750), got.Balance)
	assert.Len(t, got.Transactions, 2)
}

func TestPlaceBet_Rejections(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{}, ChoiceEven)
	ctx := context.Background()

	_, err := svc.PlaceBet(ctx, u.ID, "odd", 10)
	assert.Equal(t, CodeChoiceInvalid, validationCode(t, err))

	_, err = svc.PlaceBet(ctx, u.ID, ChoiceOdd, 0)
	assert.Equal(t, CodeAmountInvalid, validationCode(t, err))

	_, err = svc.PlaceBet(ctx, "nobody", ChoiceOdd, 10)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.PlaceBet(ctx, u.ID, ChoiceOdd, common.InitialBalance+1)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)

	require.NoError(t, st.Update(ctx, func(g *models.Graph) error {
		g.FindUser(u.ID).Status = models.StatusInactive
		return nil
	}))
	_, err = svc.PlaceBet(ctx, u.ID, ChoiceOdd, 10)
	require.ErrorIs(t, err, common.ErrUserInactive)

	g := st.Data()
	assert.Empty(t, g.AllBets)
	assert.Equal(t, common.InitialBalance, g.FindUser(u.ID).Balance)
}

func TestPlaceBet_ConcurrentBetsNeverOverdraw(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{}, ChoiceOdd)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PlaceBet(context.Background(), u.ID, ChoiceEven, 100); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// every bet loses, so exactly ten stakes of 100 fit into the balance
	assert.Equal(t, 10, accepted)
	got := st.Data().FindUser(u.ID)
	assert.Equal(t, int64(0), got.Balance)
	assert.Len(t, got.Bets, 10)
}

func TestRequestWithdrawal(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{PaymentsEnabled: true}, ChoiceEven)
	ctx := context.Background()

	w, err := svc.RequestWithdrawal(ctx, u.ID, 400)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, w.Status)
	assert.Equal(t, int64(400), w.Amount)

	g := st.Data()
	got := g.FindUser(u.ID)
	assert.Equal(t, int64(600), got.Balance)
	require.Len(t, got.Withdrawals, 1)
	require.Len(t, g.AllWithdrawals, 1)
	assert.Equal(t, w.ID, g.AllWithdrawals[0].ID)

	last := got.Transactions[len(got.Transactions)-1]
	assert.Equal(t, models.KindWithdrawal, last.Kind)
	assert.Equal(t, int64(-400), last.Amount)

	_, err = svc.RequestWithdrawal(ctx, u.ID, 601)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)

	_, err = svc.RequestWithdrawal(ctx, u.ID, -5)
	assert.Equal(t, CodeAmountInvalid, validationCode(t, err))
}

func TestRequestWithdrawal_PaymentsDisabled(t *testing.T) {
	st, svc, u := setupCasino(t, models.Settings{}, ChoiceEven)

	_, err := svc.RequestWithdrawal(context.Background(), u.ID, 10)
	require.ErrorIs(t, err, common.ErrPaymentsDisabled)
	assert.Equal(t, common.InitialBalance, st.Data().FindUser(u.ID).Balance)
}

func TestRoll_ProducesBothOutcomes(t *testing.T) {
	svc := NewCasinoService(newTestStore(t, models.Settings{}), logging.Nop())

	seen := map[string]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		seen[svc.roll()] = true
	}
	assert.True(t, seen[ChoiceEven])
	assert.True(t, seen[ChoiceOdd])
}
