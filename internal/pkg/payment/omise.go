package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

var (
	ErrInvalidParams  = errors.New("invalid checkout params")
	ErrNoAuthorizeURI = errors.New("provider returned no checkout url")
)

// Checkout is a provider-hosted payment page for one charge.
type Checkout struct {
	ChargeID string
	URL      string
}

// ChargeEvent is the verified outcome of a provider webhook.
type ChargeEvent struct {
	EventID  string
	Key      string
	ChargeID string
	Status   string
	Metadata map[string]any
}

// Successful reports a completed, paid charge.
func (e *ChargeEvent) Successful() bool {
	return e.Key == "charge.complete" && e.Status == "successful"
}

// MetadataString returns a string metadata value, or "".
func (e *ChargeEvent) MetadataString(key string) string {
	v, _ := e.Metadata[key].(string)
	return v
}

// OmiseCheckout creates redirect-flow charges on Omise.
type OmiseCheckout struct {
	client     *omise.Client
	sourceType string
	returnURI  string
	currency   string
}

func NewOmiseCheckout(publicKey, secretKey, sourceType, returnURI, currency string) (*OmiseCheckout, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	c.SetDebug(false)
	return &OmiseCheckout{
		client:     c,
		sourceType: sourceType,
		returnURI:  returnURI,
		currency:   currency,
	}, nil
}

// CreateCheckout creates a source and a charge against it; the charge's
// authorize_uri is the hosted page the app opens.
func (o *OmiseCheckout) CreateCheckout(ctx context.Context, amount int64, metadata map[string]any) (*Checkout, error) {
	if amount <= 0 {
		return nil, ErrInvalidParams
	}

	src := &omise.Source{}
	if err := o.client.Do(src, &operations.CreateSource{
		Type:     o.sourceType,
		Amount:   amount,
		Currency: o.currency,
	}); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	ch := &omise.Charge{}
	if err := o.client.Do(ch, &operations.CreateCharge{
		Amount:    amount,
		Currency:  o.currency,
		Source:    src.ID,
		ReturnURI: o.returnURI,
		Metadata:  metadata,
	}); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	log.Printf("[payment] charge created id=%s status=%s", ch.ID, ch.Status)
	if ch.AuthorizeURI == "" {
		return nil, ErrNoAuthorizeURI
	}
	return &Checkout{ChargeID: ch.ID, URL: ch.AuthorizeURI}, nil
}

// RetrieveChargeEvent re-fetches the event from Omise so a forged webhook body
// cannot activate anything.
func (o *OmiseCheckout) RetrieveChargeEvent(ctx context.Context, eventID string) (*ChargeEvent, error) {
	ev := &omise.Event{}
	if err := o.client.Do(ev, &operations.RetrieveEvent{EventID: eventID}); err != nil {
		return nil, fmt.Errorf("retrieve event: %w", err)
	}

	out := &ChargeEvent{EventID: eventID, Key: ev.Key}
	if ev.Key != "charge.complete" {
		return out, nil
	}

	// ev.Data is untyped; round-trip it into a Charge
	raw, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}
	var ch omise.Charge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("unmarshal charge: %w", err)
	}

	out.ChargeID = ch.ID
	out.Status = string(ch.Status)
	out.Metadata = ch.Metadata
	return out, nil
}
