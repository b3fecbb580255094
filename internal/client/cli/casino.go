package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var errUsage = errors.New("usage")

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// Bet handles "bet <par|impar> <amount>".
func (a *App) Bet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: bet <par|impar> <amount>")
		return errUsage
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	bet, balance, err := a.client.PlaceBet(ctx, args[0], amount)
	if err != nil {
		return a.report(err)
	}

	if bet.Won {
		fmt.Fprintf(a.out, "Outcome %s: you won %d! Balance %d\n", bet.Outcome, bet.Payout, balance)
	} else {
		fmt.Fprintf(a.out, "Outcome %s: you lost %d. Balance %d\n", bet.Outcome, bet.Amount, balance)
	}
	return nil
}

// Withdraw handles "withdraw <amount>".
func (a *App) Withdraw(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: withdraw <amount>")
		return errUsage
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	w, balance, err := a.client.RequestWithdrawal(ctx, amount)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Withdrawal %s of %d is %s. Balance %d\n", w.ID, w.Amount, w.Status, balance)
	return nil
}

// Info prints what the server says about itself.
func (a *App) Info(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	info, err := a.client.ServerInfo(ctx)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "%s %s at %s:%s\n", info.Name, info.Version, info.URL, info.Port)
	fmt.Fprintf(a.out, "payments enabled: %t\n", info.PaymentsEnabled)
	fmt.Fprintf(a.out, "maintenance:      %t\n", info.Maintenance)
	return nil
}
