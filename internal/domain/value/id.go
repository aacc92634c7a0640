package value

import (
	"fmt"

	"github.com/rs/xid"
)

type SessionID string

func NewSessionID() SessionID {
	return SessionID(xid.New().String())
}

func ParseSessionID(s string) (SessionID, error) {
	id, err := xid.FromString(s)
	if err != nil {
		return "", fmt.Errorf("xid.FromString: %w", err)
	}

	return SessionID(id.String()), nil
}

func (id SessionID) String() string {
	return string(id)
}

type TransactionID string

func NewTransactionID() TransactionID {
	return TransactionID(xid.New().String())
}

func (id TransactionID) String() string {
	return string(id)
}
