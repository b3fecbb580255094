package codec

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

// Scalars equal to their zero value are omitted, as in proto3.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendSint64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendEnum(b []byte, num protowire.Number, v int32) []byte {
	return appendInt64(b, num, int64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// appendTime writes t as a nested Timestamp; the zero time is omitted.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	var ts []byte
	ts = appendInt64(ts, timestampSeconds, t.Unix())
	ts = appendInt64(ts, timestampNanos, int64(t.Nanosecond()))
	return appendBytes(b, num, ts)
}

func appendRepeated[T any](b []byte, num protowire.Number, items []*T, enc func([]byte, *T) []byte) []byte {
	for _, item := range items {
		b = appendBytes(b, num, enc(nil, item))
	}
	return b
}

func appendGraph(b []byte, g *models.Graph) []byte {
	b = appendRepeated(b, graphUsers, g.Users, appendUser)
	b = appendRepeated(b, graphSessions, g.Sessions, appendSession)
	b = appendRepeated(b, graphAllTransactions, g.AllTransactions, appendTransaction)
	b = appendRepeated(b, graphAllBets, g.AllBets, appendBet)
	b = appendRepeated(b, graphAllWithdrawals, g.AllWithdrawals, appendWithdrawal)
	b = appendBytes(b, graphWebserver, appendWebserver(nil, &g.Webserver))
	b = appendBytes(b, graphSettings, appendSettings(nil, &g.Settings))
	return b
}

func appendUser(b []byte, u *models.User) []byte {
	b = appendString(b, userID, u.ID)
	b = appendString(b, userUsername, u.Username)
	b = appendString(b, userEmail, u.Email)
	b = appendString(b, userRealName, u.RealName)
	b = appendString(b, userPassword, u.Password)
	b = appendSint64(b, userBalance, u.Balance)
	b = appendEnum(b, userStatus, int32(u.Status))
	b = appendTime(b, userCreatedAt, u.CreatedAt)
	b = appendTime(b, userLastLogin, u.LastLogin)
	b = appendRepeated(b, userTransactions, u.Transactions, appendTransaction)
	b = appendRepeated(b, userBets, u.Bets, appendBet)
	b = appendRepeated(b, userWithdrawals, u.Withdrawals, appendWithdrawal)
	return b
}

func appendSession(b []byte, s *models.Session) []byte {
	b = appendString(b, sessionID, s.ID)
	b = appendString(b, sessionUserID, s.UserID)
	b = appendTime(b, sessionCreatedAt, s.CreatedAt)
	b = appendTime(b, sessionExpiresAt, s.ExpiresAt)
	return b
}

func appendTransaction(b []byte, t *models.Transaction) []byte {
	b = appendString(b, transactionID, t.ID)
	b = appendString(b, transactionUserID, t.UserID)
	b = appendEnum(b, transactionKind, int32(t.Kind))
	b = appendSint64(b, transactionAmount, t.Amount)
	b = appendSint64(b, transactionBalanceAfter, t.BalanceAfter)
	b = appendTime(b, transactionCreatedAt, t.CreatedAt)
	return b
}

func appendBet(b []byte, bet *models.Bet) []byte {
	b = appendString(b, betID, bet.ID)
	b = appendString(b, betUserID, bet.UserID)
	b = appendString(b, betGame, bet.Game)
	b = appendString(b, betChoice, bet.Choice)
	b = appendString(b, betOutcome, bet.Outcome)
	b = appendSint64(b, betAmount, bet.Amount)
	b = appendSint64(b, betPayout, bet.Payout)
	b = appendTime(b, betCreatedAt, bet.CreatedAt)
	return b
}

func appendWithdrawal(b []byte, w *models.Withdrawal) []byte {
	b = appendString(b, withdrawalID, w.ID)
	b = appendString(b, withdrawalUserID, w.UserID)
	b = appendSint64(b, withdrawalAmount, w.Amount)
	b = appendEnum(b, withdrawalStatus, int32(w.Status))
	b = appendTime(b, withdrawalCreatedAt, w.CreatedAt)
	return b
}

func appendWebserver(b []byte, w *models.Webserver) []byte {
	b = appendString(b, webserverURL, w.URL)
	b = appendString(b, webserverPort, w.Port)
	b = appendString(b, webserverProtocol, w.Protocol)
	b = appendString(b, webserverName, w.Name)
	b = appendString(b, webserverVersion, w.Version)
	b = appendString(b, webserverDescription, w.Description)
	b = appendString(b, webserverAuthor, w.Author)
	b = appendString(b, webserverLicense, w.License)
	return b
}

func appendSettings(b []byte, s *models.Settings) []byte {
	b = appendBool(b, settingsPaymentsEnabled, s.PaymentsEnabled)
	b = appendBool(b, settingsMaintenance, s.Maintenance)
	b = appendString(b, settingsLogLevel, s.LogLevel)
	return b
}
