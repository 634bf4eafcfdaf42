// Package preferences persists the remembered PromptPay identifier and amount.
package preferences

import (
	"context"
	"errors"
)

// Fixed keys the form reads at load and writes after each generation.
const (
	KeyIdentifier = "promptpay_id"
	KeyAmount     = "promptpay_amount"
	KeyRemember   = "promptpay_remember_me"
)

// Store is a string key-value store. Get returns "" for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote or file resource.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Preference is the remembered form input.
type Preference struct {
	Identifier string `json:"identifier"`
	Amount     string `json:"amount"`
	Remember   bool   `json:"remember"`
}

// Read loads the stored preference. Only the literal "true" enables remember.
func Read(ctx context.Context, s Store) (Preference, error) {
	var p Preference
	var err error

	if p.Identifier, err = s.Get(ctx, KeyIdentifier); err != nil {
		return Preference{}, err
	}
	if p.Amount, err = s.Get(ctx, KeyAmount); err != nil {
		return Preference{}, err
	}
	remember, err := s.Get(ctx, KeyRemember)
	if err != nil {
		return Preference{}, err
	}
	p.Remember = remember == "true"
	return p, nil
}

// Remember stores identifier, amount and the remember flag.
func Remember(ctx context.Context, s Store, p Preference) error {
	return errors.Join(
		s.Set(ctx, KeyIdentifier, p.Identifier),
		s.Set(ctx, KeyAmount, p.Amount),
		s.Set(ctx, KeyRemember, "true"),
	)
}

// Forget drops identifier and amount but records that remember is off.
func Forget(ctx context.Context, s Store) error {
	return errors.Join(
		s.Remove(ctx, KeyIdentifier),
		s.Remove(ctx, KeyAmount),
		s.Set(ctx, KeyRemember, "false"),
	)
}

// Sync applies Remember or Forget depending on p.Remember.
func Sync(ctx context.Context, s Store, p Preference) error {
	if p.Remember {
		return Remember(ctx, s, p)
	}
	return Forget(ctx, s)
}

type namespaced struct {
	Store
	prefix string
}

// Namespace scopes every key of s under ns, so one backend can serve many
// browser sessions. A nil store stays nil.
func Namespace(s Store, ns string) Store {
	if s == nil || ns == "" {
		return s
	}
	return &namespaced{Store: s, prefix: ns + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.Store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.Store.Remove(ctx, n.prefix+key)
}

func (n *namespaced) Ping(ctx context.Context) error {
	if p, ok := n.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
