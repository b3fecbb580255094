// Package codec turns a models.Graph into the bytes persisted by the page
// store and back.
//
// The graph is written in protobuf wire format (see fields.go) and wrapped
// in an envelope carrying a format version and a BLAKE3 digest of the graph
// bytes. The digest is what turns a truncated or garbled row into
// common.ErrCorruptPayload instead of a silently shorter graph: a plain
// protobuf message cut at a field boundary still parses.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

// FormatVersion is written into every envelope.
const FormatVersion = 1

// Encode serializes g. The output is deterministic for a given graph.
// A nil entry in any of the graph's lists is an error: it has no wire form
// that decodes back to nil.
func Encode(g *models.Graph) ([]byte, error) {
	if g == nil {
		return nil, errors.New("encode: nil graph")
	}
	if err := checkEntries(g); err != nil {
		return nil, err
	}
	payload := appendGraph(nil, g)
	digest := blake3.Sum256(payload)

	out := make([]byte, 0, len(payload)+len(digest)+16)
	out = protowire.AppendTag(out, envelopeVersion, protowire.VarintType)
	out = protowire.AppendVarint(out, FormatVersion)
	out = appendBytes(out, envelopeGraph, payload)
	out = appendBytes(out, envelopeDigest, digest[:])
	return out, nil
}

func checkEntries(g *models.Graph) error {
	if err := noNil("users", g.Users); err != nil {
		return err
	}
	if err := noNil("sessions", g.Sessions); err != nil {
		return err
	}
	if err := noNil("transactions", g.AllTransactions); err != nil {
		return err
	}
	if err := noNil("bets", g.AllBets); err != nil {
		return err
	}
	if err := noNil("withdrawals", g.AllWithdrawals); err != nil {
		return err
	}
	for _, u := range g.Users {
		if err := noNil("user "+u.ID+" transactions", u.Transactions); err != nil {
			return err
		}
		if err := noNil("user "+u.ID+" bets", u.Bets); err != nil {
			return err
		}
		if err := noNil("user "+u.ID+" withdrawals", u.Withdrawals); err != nil {
			return err
		}
	}
	return nil
}

func noNil[T any](field string, items []*T) error {
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("encode: nil entry in %s at index %d", field, i)
		}
	}
	return nil
}

// Decode parses bytes produced by Encode. Fields unknown to this version are
// skipped and absent fields keep their zero values. Any framing, digest or
// content error is reported as common.ErrCorruptPayload.
func Decode(b []byte) (*models.Graph, error) {
	var (
		version               uint64
		payload, digest       []byte
		haveGraph, haveDigest bool
	)
	err := decodeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case envelopeVersion:
			v, n, err := consumeVarint(num, typ, b)
			version = v
			return n, err
		case envelopeGraph:
			v, n, err := consumeBytes(num, typ, b)
			payload, haveGraph = v, true
			return n, err
		case envelopeDigest:
			v, n, err := consumeBytes(num, typ, b)
			digest, haveDigest = v, true
			return n, err
		}
		return unknownField, nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case version != FormatVersion:
		return nil, corrupt("unsupported format version %d", version)
	case !haveGraph:
		return nil, corrupt("missing graph")
	case !haveDigest:
		return nil, corrupt("missing digest")
	}
	sum := blake3.Sum256(payload)
	if !bytes.Equal(sum[:], digest) {
		return nil, corrupt("digest mismatch")
	}

	return readGraph(payload)
}
