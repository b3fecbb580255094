package codec

import (
	"fmt"
	"time"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

// unknownField is returned by field handlers for numbers they do not own;
// the value is then skipped.
const unknownField = -1

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrCorruptPayload, fmt.Sprintf(format, args...))
}

func decodeMessage(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return corrupt("tag: %v", protowire.ParseError(n))
		}
		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m == unknownField {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return corrupt("field %d: %v", num, protowire.ParseError(m))
			}
		}
		b = b[m:]
	}
	return nil
}

func expect(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return corrupt("field %d: wire type %d, want %d", num, got, want)
	}
	return nil
}

func consumeVarint(num protowire.Number, typ protowire.Type, b []byte) (uint64, int, error) {
	if err := expect(num, typ, protowire.VarintType); err != nil {
		return 0, 0, err
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, corrupt("field %d: %v", num, protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(num protowire.Number, typ protowire.Type, b []byte) ([]byte, int, error) {
	if err := expect(num, typ, protowire.BytesType); err != nil {
		return nil, 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, corrupt("field %d: %v", num, protowire.ParseError(n))
	}
	return v, n, nil
}

func readString(num protowire.Number, typ protowire.Type, b []byte, dst *string) (int, error) {
	v, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return 0, err
	}
	if !utf8.Valid(v) {
		return 0, corrupt("field %d: invalid utf-8", num)
	}
	*dst = string(v)
	return n, nil
}

func readSint64(num protowire.Number, typ protowire.Type, b []byte, dst *int64) (int, error) {
	v, n, err := consumeVarint(num, typ, b)
	if err != nil {
		return 0, err
	}
	*dst = protowire.DecodeZigZag(v)
	return n, nil
}

func readInt64(num protowire.Number, typ protowire.Type, b []byte, dst *int64) (int, error) {
	v, n, err := consumeVarint(num, typ, b)
	if err != nil {
		return 0, err
	}
	*dst = int64(v)
	return n, nil
}

// readEnum keeps unknown values, so newer enum members survive a round trip
// through an older reader.
func readEnum(num protowire.Number, typ protowire.Type, b []byte, dst *int32) (int, error) {
	v, n, err := consumeVarint(num, typ, b)
	if err != nil {
		return 0, err
	}
	*dst = int32(v)
	return n, nil
}

func readBool(num protowire.Number, typ protowire.Type, b []byte, dst *bool) (int, error) {
	v, n, err := consumeVarint(num, typ, b)
	if err != nil {
		return 0, err
	}
	*dst = protowire.DecodeBool(v)
	return n, nil
}

func readTime(num protowire.Number, typ protowire.Type, b []byte, dst *time.Time) (int, error) {
	m, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return 0, err
	}
	var secs, nanos int64
	err = decodeMessage(m, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case timestampSeconds:
			return readInt64(num, typ, b, &secs)
		case timestampNanos:
			return readInt64(num, typ, b, &nanos)
		}
		return unknownField, nil
	})
	if err != nil {
		return 0, err
	}
	if nanos < 0 || nanos >= int64(time.Second) {
		return 0, corrupt("field %d: nanos %d out of range", num, nanos)
	}
	*dst = time.Unix(secs, nanos).UTC()
	return n, nil
}

func readRepeated[T any](num protowire.Number, typ protowire.Type, b []byte, dst *[]*T, dec func([]byte) (*T, error)) (int, error) {
	m, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return 0, err
	}
	item, err := dec(m)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, item)
	return n, nil
}

func readGraph(b []byte) (*models.Graph, error) {
	g := models.NewGraph(models.Webserver{}, models.Settings{})
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case graphUsers:
			return readRepeated(num, typ, b, &g.Users, readUser)
		case graphSessions:
			return readRepeated(num, typ, b, &g.Sessions, readSession)
		case graphAllTransactions:
			return readRepeated(num, typ, b, &g.AllTransactions, readTransaction)
		case graphAllBets:
			return readRepeated(num, typ, b, &g.AllBets, readBet)
		case graphAllWithdrawals:
			return readRepeated(num, typ, b, &g.AllWithdrawals, readWithdrawal)
		case graphWebserver:
			m, n, err := consumeBytes(num, typ, b)
			if err != nil {
				return 0, err
			}
			return n, readWebserver(m, &g.Webserver)
		case graphSettings:
			m, n, err := consumeBytes(num, typ, b)
			if err != nil {
				return 0, err
			}
			return n, readSettings(m, &g.Settings)
		}
		return unknownField, nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func readUser(b []byte) (*models.User, error) {
	u := &models.User{}
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case userID:
			return readString(num, typ, b, &u.ID)
		case userUsername:
			return readString(num, typ, b, &u.Username)
		case userEmail:
			return readString(num, typ, b, &u.Email)
		case userRealName:
			return readString(num, typ, b, &u.RealName)
		case userPassword:
			return readString(num, typ, b, &u.Password)
		case userBalance:
			return readSint64(num, typ, b, &u.Balance)
		case userStatus:
			return readEnum(num, typ, b, (*int32)(&u.Status))
		case userCreatedAt:
			return readTime(num, typ, b, &u.CreatedAt)
		case userLastLogin:
			return readTime(num, typ, b, &u.LastLogin)
		case userTransactions:
			return readRepeated(num, typ, b, &u.Transactions, readTransaction)
		case userBets:
			return readRepeated(num, typ, b, &u.Bets, readBet)
		case userWithdrawals:
			return readRepeated(num, typ, b, &u.Withdrawals, readWithdrawal)
		}
		return unknownField, nil
	})
	return u, err
}

func readSession(b []byte) (*models.Session, error) {
	s := &models.Session{}
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case sessionID:
			return readString(num, typ, b, &s.ID)
		case sessionUserID:
			return readString(num, typ, b, &s.UserID)
		case sessionCreatedAt:
			return readTime(num, typ, b, &s.CreatedAt)
		case sessionExpiresAt:
			return readTime(num, typ, b, &s.ExpiresAt)
		}
		return unknownField, nil
	})
	return s, err
}

func readTransaction(b []byte) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case transactionID:
			return readString(num, typ, b, &t.ID)
		case transactionUserID:
			return readString(num, typ, b, &t.UserID)
		case transactionKind:
			return readEnum(num, typ, b, (*int32)(&t.Kind))
		case transactionAmount:
			return readSint64(num, typ, b, &t.Amount)
		case transactionBalanceAfter:
			return readSint64(num, typ, b, &t.BalanceAfter)
		case transactionCreatedAt:
			return readTime(num, typ, b, &t.CreatedAt)
		}
		return unknownField, nil
	})
	return t, err
}

func readBet(b []byte) (*models.Bet, error) {
	bet := &models.Bet{}
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case betID:
			return readString(num, typ, b, &bet.ID)
		case betUserID:
			return readString(num, typ, b, &bet.UserID)
		case betGame:
			return readString(num, typ, b, &bet.Game)
		case betChoice:
			return readString(num, typ, b, &bet.Choice)
		case betOutcome:
			return readString(num, typ, b, &bet.Outcome)
		case betAmount:
			return readSint64(num, typ, b, &bet.Amount)
		case betPayout:
			return readSint64(num, typ, b, &bet.Payout)
		case betCreatedAt:
			return readTime(num, typ, b, &bet.CreatedAt)
		}
		return unknownField, nil
	})
	return bet, err
}

func readWithdrawal(b []byte) (*models.Withdrawal, error) {
	w := &models.Withdrawal{}
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case withdrawalID:
			return readString(num, typ, b, &w.ID)
		case withdrawalUserID:
			return readString(num, typ, b, &w.UserID)
		case withdrawalAmount:
			return readSint64(num, typ, b, &w.Amount)
		case withdrawalStatus:
			return readEnum(num, typ, b, (*int32)(&w.Status))
		case withdrawalCreatedAt:
			return readTime(num, typ, b, &w.CreatedAt)
		}
		return unknownField, nil
	})
	return w, err
}

func readWebserver(b []byte, w *models.Webserver) error {
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case webserverURL:
			return readString(num, typ, b, &w.URL)
		case webserverPort:
			return readString(num, typ, b, &w.Port)
		case webserverProtocol:
			return readString(num, typ, b, &w.Protocol)
		case webserverName:
			return readString(num, typ, b, &w.Name)
		case webserverVersion:
			return readString(num, typ, b, &w.Version)
		case webserverDescription:
			return readString(num, typ, b, &w.Description)
		case webserverAuthor:
			return readString(num, typ, b, &w.Author)
		case webserverLicense:
			return readString(num, typ, b, &w.License)
		}
		return unknownField, nil
	})
}

func readSettings(b []byte, s *models.Settings) error {
	return decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case settingsPaymentsEnabled:
			return readBool(num, typ, b, &s.PaymentsEnabled)
		case settingsMaintenance:
			return readBool(num, typ, b, &s.Maintenance)
		case settingsLogLevel:
			return readString(num, typ, b, &s.LogLevel)
		}
		return unknownField, nil
	})
}
