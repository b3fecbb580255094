package services

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

// The even/odd game.
const (
	GameParImpar = "parimpar"
	ChoiceEven   = "par"
	ChoiceOdd    = "impar"

	// a winning bet pays back twice the stake
	parImparMultiplier = 2
)

// CasinoService moves money: bets and withdrawals. Every operation is one
// Update, so the balance check and the debit cannot interleave with another
// operation on the same user.
type CasinoService struct {
	store  *snapshot.Store
	logger logging.Logger
	now    func() time.Time
	// roll returns the outcome of one even/odd round
	roll func() string
}

func NewCasinoService(store *snapshot.Store, logger logging.Logger) *CasinoService {
	return &CasinoService{
		store:  store,
		logger: logger.With("module", "casino"),
		now:    time.Now,
		roll: func() string {
			if rand.IntN(2) == 0 {
				return ChoiceEven
			}
			return ChoiceOdd
		},
	}
}

// PlaceBet stakes amount on choice ("par" or "impar"). The stake is always
// debited; a correct guess credits twice the stake. Both movements are
// recorded as transactions on the user and in the global ledger.
func (s *CasinoService) PlaceBet(ctx context.Context, userID, choice string, amount int64) (*models.Bet, error) {
	if choice != ChoiceEven && choice != ChoiceOdd {
		return nil, invalid(CodeChoiceInvalid)
	}
	if amount <= 0 {
		return nil, invalid(CodeAmountInvalid)
	}

	var bet *models.Bet
	err := s.store.Update(ctx, func(g *models.Graph) error {
		u, err := activeUser(g, userID)
		if err != nil {
			return err
		}
		if u.Balance < amount {
			return common.ErrInsufficientBalance
		}

		now := s.now().UTC()
		outcome := s.roll()
		var payout int64
		if outcome == choice {
			payout = amount * parImparMultiplier
		}

		u.Balance -= amount
		record(g, u, &models.Transaction{
			ID: common.NewID(now), UserID: u.ID, Kind: models.KindBetStake,
			Amount: -amount, BalanceAfter: u.Balance, CreatedAt: now,
		})
		if payout > 0 {
			u.Balance += payout
			record(g, u, &models.Transaction{
				ID: common.NewID(now), UserID: u.ID, Kind: models.KindBetPayout,
				Amount: payout, BalanceAfter: u.Balance, CreatedAt: now,
			})
		}

		b := &models.Bet{
			ID: common.NewID(now), UserID: u.ID, Game: GameParImpar,
			Choice: choice, Outcome: outcome, Amount: amount, Payout: payout, CreatedAt: now,
		}
		u.Bets = append(u.Bets, b)
		g.AllBets = append(g.AllBets, b.Clone())

		bet = b.Clone()
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "bet rejected", "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "bet placed", "user_id", userID, "choice", choice, "outcome", bet.Outcome, "amount", amount, "payout", bet.Payout)
	return bet, nil
}

// RequestWithdrawal debits amount and files a pending withdrawal. Payments
// must be enabled in the persisted settings.
func (s *CasinoService) RequestWithdrawal(ctx context.Context, userID string, amount int64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, invalid(CodeAmountInvalid)
	}

	var out *models.Withdrawal
	err := s.store.Update(ctx, func(g *models.Graph) error {
		if !g.Settings.PaymentsEnabled {
			return common.ErrPaymentsDisabled
		}
		u, err := activeUser(g, userID)
		if err != nil {
			return err
		}
		if u.Balance < amount {
			return common.ErrInsufficientBalance
		}

		now := s.now().UTC()
		u.Balance -= amount
		record(g, u, &models.Transaction{
			ID: common.NewID(now), UserID: u.ID, Kind: models.KindWithdrawal,
			Amount: -amount, BalanceAfter: u.Balance, CreatedAt: now,
		})

		w := &models.Withdrawal{
			ID: common.NewID(now), UserID: u.ID, Amount: amount,
			Status: models.WithdrawalPending, CreatedAt: now,
		}
		u.Withdrawals = append(u.Withdrawals, w)
		g.AllWithdrawals = append(g.AllWithdrawals, w.Clone())

		out = w.Clone()
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "withdrawal rejected", "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "withdrawal requested", "user_id", userID, "amount", amount, "withdrawal_id", out.ID)
	return out, nil
}

func activeUser(g *models.Graph, userID string) (*models.User, error) {
	u := g.FindUser(userID)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	if !u.Active() {
		return nil, common.ErrUserInactive
	}
	return u, nil
}

// record appends t to the user's history and a copy to the global ledger.
func record(g *models.Graph, u *models.User, t *models.Transaction) {
	u.Transactions = append(u.Transactions, t)
	g.AllTransactions = append(g.AllTransactions, t.Clone())
}
