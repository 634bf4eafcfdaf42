// Package form implements the PromptPay form: input handling, payload
// generation, preference syncing and the transient status messages.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"promptqr/internal/engine/export"
	"promptqr/internal/engine/promptpay"
	"promptqr/internal/engine/render"
	"promptqr/internal/pkg/i18n"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/pkg/metrics"
	"promptqr/internal/pkg/validator"
	"promptqr/internal/platform/preferences"
)

const DefaultSuccessTTL = 3 * time.Second

// Renderer draws the QR symbol for a payload.
type Renderer interface {
	Render(payload string) (*render.Symbol, error)
}

type Options struct {
	Encoder  promptpay.Encoder
	Renderer Renderer
	Capturer export.Capturer
	// Store may be nil, in which case nothing is remembered.
	Store      preferences.Store
	Clock      clockwork.Clock
	SuccessTTL time.Duration
	Locale     string
	// Session only labels log lines.
	Session string
}

type notice struct {
	key  i18n.Key
	args []any
}

type Controller struct {
	mu sync.Mutex

	identifier string
	amount     string
	remember   bool
	payload    string
	errMsg     *notice
	okMsg      *notice

	timer clockwork.Timer
	// seq invalidates a success timer that fired after its message was replaced.
	seq uint64

	encoder  promptpay.Encoder
	renderer Renderer
	capturer export.Capturer
	store    preferences.Store
	clock    clockwork.Clock
	ttl      time.Duration
	loc      *i18n.Localizer
	log      zerolog.Logger
}

func New(opts Options) *Controller {
	if opts.Encoder == nil {
		opts.Encoder = promptpay.NewEncoder()
	}
	if opts.Capturer == nil {
		opts.Capturer = export.NewPNGCapturer()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.SuccessTTL == 0 {
		opts.SuccessTTL = DefaultSuccessTTL
	}

	return &Controller{
		remember: true,
		encoder:  opts.Encoder,
		renderer: opts.Renderer,
		capturer: opts.Capturer,
		store:    opts.Store,
		clock:    opts.Clock,
		ttl:      opts.SuccessTTL,
		loc:      i18n.New(opts.Locale),
		log:      logger.ForSession("form", opts.Session),
	}
}

// Load restores the remembered input and, when remember was on and an
// identifier was stored, generates straight away.
func (c *Controller) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	pref, err := preferences.Read(ctx, c.store)
	if err != nil {
		return fmt.Errorf("load preference: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.identifier = pref.Identifier
	c.amount = pref.Amount
	c.remember = pref.Remember

	if pref.Remember && pref.Identifier != "" {
		// the outcome lands in the state either way
		_ = c.generateLocked(ctx)
	}
	return nil
}

// SetLocale switches the language used for messages.
func (c *Controller) SetLocale(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = i18n.New(lang)
}

// SetIdentifier accepts typed input through the identifier mask.
func (c *Controller) SetIdentifier(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identifier = validator.MaskPromptPayID(raw)
}

func (c *Controller) SetAmount(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amount = raw
}

func (c *Controller) SetRemember(remember bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remember = remember
}

// BlurIdentifier generates once the identifier has a valid digit count.
func (c *Controller) BlurIdentifier(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !promptpay.HasValidLength(validator.Digits(c.identifier)) {
		return nil
	}
	return c.generateLocked(ctx)
}

// BlurAmount normalizes a valid amount to two decimals.
func (c *Controller) BlurAmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amount = promptpay.FormatAmount(c.amount)
}

// Submit generates from the current input.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generateLocked(ctx)
}

// Generate applies in and submits it as one step.
func (c *Controller) Generate(ctx context.Context, in Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identifier = validator.MaskPromptPayID(in.Identifier)
	c.amount = in.Amount
	if in.Remember != nil {
		c.remember = *in.Remember
	}
	return c.generateLocked(ctx)
}

func (c *Controller) generateLocked(ctx context.Context) error {
	c.clearMessagesLocked()
	c.payload = ""

	digits, err := promptpay.ValidateIdentifier(c.identifier)
	if err != nil {
		return c.failGenerationLocked(err)
	}

	amount, err := promptpay.ParseAmount(c.amount)
	if err != nil {
		return c.failGenerationLocked(err)
	}

	payload, err := c.encoder.Encode(digits, amount)
	if err != nil {
		if !errors.Is(err, promptpay.ErrEncodingFailure) {
			err = fmt.Errorf("%w: %v", promptpay.ErrEncodingFailure, err)
		}
		return c.failGenerationLocked(err)
	}

	c.payload = payload
	metrics.Generations.Add(1)

	if c.store != nil {
		pref := preferences.Preference{Identifier: c.identifier, Amount: c.amount, Remember: c.remember}
		if err := preferences.Sync(ctx, c.store, pref); err != nil {
			c.log.Warn().Err(err).Bool("remember", c.remember).Msg("failed to sync preference")
		}
	}

	c.log.Debug().
		Str("identifier", logger.MaskIdentifier(digits)).
		Bool("amount", amount != nil).
		Msg("payload generated")

	c.succeedLocked(notice{key: i18n.Generated})
	return nil
}

func (c *Controller) failGenerationLocked(err error) error {
	metrics.GenerationFailures.Add(1)
	c.payload = ""

	key, args := MessageFor(err)
	if key == i18n.EncodingFailed {
		c.log.Error().Err(err).Msg("payload encoding failed")
	}
	c.failLocked(notice{key: key, args: args})
	return err
}

// MessageFor maps a generation error to the message shown for it.
func MessageFor(err error) (i18n.Key, []any) {
	switch {
	case errors.Is(err, promptpay.ErrIdentifierRequired):
		return i18n.IdentifierRequired, nil
	case errors.Is(err, promptpay.ErrInvalidIdentifier):
		return i18n.InvalidIdentifier, nil
	case errors.Is(err, promptpay.ErrInvalidAmount):
		return i18n.InvalidAmount, nil
	default:
		return i18n.EncodingFailed, []any{err.Error()}
	}
}

// State returns a copy of the form with messages in the current language.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Identifier:         c.identifier,
		Amount:             c.amount,
		RememberPreference: c.remember,
		LastPayload:        c.payload,
		ErrorMessage:       c.textLocked(c.errMsg),
		SuccessMessage:     c.textLocked(c.okMsg),
	}
}

// Close stops the pending success-message timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) textLocked(n *notice) string {
	if n == nil {
		return ""
	}
	return c.loc.Text(n.key, n.args...)
}

func (c *Controller) clearMessagesLocked() {
	c.errMsg = nil
	c.okMsg = nil
	c.stopTimerLocked()
}

func (c *Controller) failLocked(n notice) {
	c.clearMessagesLocked()
	c.errMsg = &n
}

// succeedLocked shows n and schedules its removal after the success TTL,
// replacing any earlier schedule.
func (c *Controller) succeedLocked(n notice) {
	c.clearMessagesLocked()
	c.okMsg = &n

	seq := c.seq
	c.timer = c.clock.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.seq == seq {
			c.okMsg = nil
			c.timer = nil
		}
	})
}

func (c *Controller) stopTimerLocked() {
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
