package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/google/uuid"
)

const orderPrefix = "order_"

// Order is the handle passed to the client's payment flow. Nothing about it
// is stored; the ID carries the reference notes and an authentication tag.
type Order struct {
	ID       string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id,omitempty"`
	SlotID   string `json:"-"`
	CallerID string `json:"-"`
}

type orderNotes struct {
	Nonce    string `json:"n"`
	SlotID   string `json:"s"`
	CallerID string `json:"c"`
	Amount   int64  `json:"a"`
	Currency string `json:"cur"`
}

// Gate issues orders and checks payment assertions against the processor's
// shared secret. It holds no state beyond its keys.
type Gate struct {
	keyID    string
	secret   []byte
	currency string
}

func NewGate(keyID, secret, currency string) *Gate {
	return &Gate{keyID: keyID, secret: []byte(secret), currency: currency}
}

func (g *Gate) Currency() string {
	return g.currency
}

// CreateOrder issues an order for one seat on slot. Availability checks are
// the caller's responsibility.
func (g *Gate) CreateOrder(slot *domain.Slot, callerID string) (*Order, error) {
	notes := orderNotes{
		Nonce:    uuid.NewString(),
		SlotID:   slot.ID,
		CallerID: callerID,
		Amount:   slot.PriceMinor,
		Currency: g.currency,
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("encode order notes: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	id := orderPrefix + body + "." + g.tag("order", body)

	return &Order{
		ID:       id,
		Amount:   notes.Amount,
		Currency: notes.Currency,
		KeyID:    g.keyID,
		SlotID:   notes.SlotID,
		CallerID: notes.CallerID,
	}, nil
}

// DecodeOrder authenticates an order id issued by CreateOrder and returns its notes.
func (g *Gate) DecodeOrder(orderID string) (*Order, error) {
	rest, ok := strings.CutPrefix(orderID, orderPrefix)
	if !ok {
		return nil, domain.ErrOrderMismatch
	}
	body, tag, ok := strings.Cut(rest, ".")
	if !ok || !hmac.Equal([]byte(tag), []byte(g.tag("order", body))) {
		return nil, domain.ErrOrderMismatch
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, domain.ErrOrderMismatch
	}
	var notes orderNotes
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, domain.ErrOrderMismatch
	}
	return &Order{
		ID:       orderID,
		Amount:   notes.Amount,
		Currency: notes.Currency,
		KeyID:    g.keyID,
		SlotID:   notes.SlotID,
		CallerID: notes.CallerID,
	}, nil
}

// Verify checks that signature is the hex HMAC-SHA256 of "orderID|paymentID".
func (g *Gate) Verify(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return domain.ErrSignatureMismatch
	}
	expected := Sign(g.secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// Sign computes the processor signature for an order/payment pair.
func Sign(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *Gate) tag(purpose, body string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(purpose))
	mac.Write([]byte{0})
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
}
