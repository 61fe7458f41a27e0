// Package testfixtures provides types used for testing the schema providers.
package testfixtures

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/springdox/springdox/internal/testfixtures/a"
	"github.com/springdox/springdox/internal/testfixtures/b"
)

// Color is a paint color.
type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	case Blue:
		return "BLUE"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// MarshalText writes blue as "b".
func (c Color) MarshalText() ([]byte, error) {
	if c == Blue {
		return []byte("b"), nil
	}
	return []byte(c.String()), nil
}

// Status is an account status.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

// Email is a mailbox address.
type Email string

// Account is a customer account.
//
//springdox:model
type Account struct {
	// ID uniquely identifies the account.
	ID     int64   `json:"id" validate:"required,gt=0"`
	Email  Email   `json:"email" example:"ada@example.com"`
	Status Status  `json:"status"`
	Colors []Color `json:"colors,omitempty"`

	Owner   *a.User           `json:"owner"`
	Backup  b.User            `json:"backup"`
	Created time.Time         `json:"created"`
	Labels  map[string]string `json:"labels"`
	Balance float64           `json:"balance" validate:"gte=0"`

	Audit

	mu     sync.Mutex
	secret string
}

// Audit records who last changed a record.
type Audit struct {
	UpdatedBy string    `json:"updatedBy"`
	Updated   time.Time `json:"updated"`
}

// Page is one page of results.
type Page[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next,omitempty"` // cursor of the following page
}

// Directory lists accounts page by page.
//
//springdox:model
type Directory struct {
	Accounts Page[Account] `json:"accounts"`
}

// Pet is any animal.
//
//springdox:discriminator kind
//springdox:subtypes Cat Dog
type Pet struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func (Pet) SchemaDescription() string   { return "Pet is any animal." }
func (Pet) SchemaDiscriminator() string { return "kind" }
func (Pet) SchemaSubtypes() []any       { return []any{Cat{}, Dog{}} }

// Cat is a pet that purrs.
type Cat struct {
	Pet
	Indoor bool `json:"indoor"`
}

// Dog is a pet that fetches.
type Dog struct {
	Pet
	GoodBoy bool `json:"goodBoy"`
}

// Node is a linked list node.
type Node struct {
	Value string `json:"value"`
	Next  *Node  `json:"next"`
}

// Session holds well-known library types.
type Session struct {
	ID      uuid.UUID       `json:"id"`
	TTL     time.Duration   `json:"ttl"`
	Payload json.RawMessage `json:"payload"`
	Token   []byte          `json:"token"`
	Meta    struct {
		Agent string `json:"agent"`
	} `json:"meta"`
	Events chan string `json:"-"`
}

// Ledger holds anonymous metadata whose field-derived name is taken by
// LedgerMeta.
type Ledger struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

// LedgerMeta describes who keeps a ledger.
type LedgerMeta struct {
	Owner string `json:"owner"`
}

// Envelope wraps a value in anonymous metadata.
type Envelope[T any] struct {
	Meta struct {
		Value T `json:"value"`
	} `json:"meta"`
}

// Mailbox holds two instantiations of Envelope.
type Mailbox struct {
	Numbers Envelope[int]    `json:"numbers"`
	Names   Envelope[string] `json:"names"`
}

// GetAccountRequest carries the parameters of an account lookup.
type GetAccountRequest struct {
	// ID of the account to fetch.
	ID      int64  `path:"id" validate:"gt=0"`
	Expand  Status `query:"expand"`
	TraceID string `header:"X-Trace-Id"`
	Limit   int32  `schema:"limit" validate:"min=1,max=100"`
}
