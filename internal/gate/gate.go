// Package gate implements the PIN screen's state machine: PIN
// creation with confirmation, verification with a settle-delay
// auto-submit, a three-strike lockout, and an optional biometric
// shortcut. It owns no storage of its own; the credential lives in
// the vault and the gate only drives it.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State identifies where the PIN screen is in its flow.
type State string

const (
	// StateNoPIN is the idle state before Start has probed the vault.
	StateNoPIN State = "no_pin"
	// StateCreateEnter collects the first entry of a new PIN.
	StateCreateEnter State = "create_enter"
	// StateCreateConfirm collects the repeat entry of a new PIN.
	StateCreateConfirm State = "create_confirm"
	// StateLockedVerify collects digits against the stored credential.
	StateLockedVerify State = "locked_verify"
	// StateUnlocked is terminal for a successful unlock or creation.
	StateUnlocked State = "unlocked"
	// StateLockedOut rejects all input until the lockout window ends.
	StateLockedOut State = "locked_out"
)

const (
	pinLength = 4

	// DefaultSettleDelay is how long the fourth digit stays on screen
	// before the entry auto-submits.
	DefaultSettleDelay = 150 * time.Millisecond
	// DefaultLockoutWindow is how long input stays rejected after the
	// third consecutive failure.
	DefaultLockoutWindow = 30 * time.Second

	maxFailures = 3
)

// Vault is the credential store the gate drives. Satisfied by
// *vault.Vault.
type Vault interface {
	HasPIN(ctx context.Context) (bool, error)
	SetPIN(ctx context.Context, pin string) error
	VerifyPIN(ctx context.Context, pin string) (bool, error)
}

// Biometrics probes the platform's biometric capability. Authenticate
// blocks until the platform prompt resolves.
type Biometrics interface {
	HasHardware() bool
	IsEnrolled() bool
	Authenticate(ctx context.Context, prompt string) (bool, error)
}

// Hydrator runs once when the gate reaches Unlocked.
type Hydrator interface {
	Hydrate(ctx context.Context)
}

// HydratorFunc adapts a function to the Hydrator interface.
type HydratorFunc func(ctx context.Context)

func (f HydratorFunc) Hydrate(ctx context.Context) { f(ctx) }

// Callbacks surface gate events to the UI layer. Nil fields are
// ignored. Callbacks run outside the gate's lock; they may call back
// into the gate.
type Callbacks struct {
	// OnState fires on every state transition.
	OnState func(State)
	// OnVibrate fires on a rejected entry (wrong PIN, confirm mismatch).
	OnVibrate func()
	// OnExit fires when the user cancels out of the creation flow.
	OnExit func()
}

// Config assembles a Gate. Vault is required; everything else has a
// working default.
type Config struct {
	Vault      Vault
	Biometrics Biometrics
	Hydrator   Hydrator
	Callbacks  Callbacks
	Clock      Clock
	Logger     *slog.Logger

	SettleDelay   time.Duration
	LockoutWindow time.Duration
}

// Gate is the PIN screen state machine. All methods are safe for
// concurrent use; timer callbacks are serialized through the same lock
// as user input.
type Gate struct {
	vault     Vault
	bio       Biometrics
	hydrator  Hydrator
	callbacks Callbacks
	clock     Clock
	log       *slog.Logger

	settleDelay   time.Duration
	lockoutWindow time.Duration

	mu        sync.Mutex
	ctx       context.Context
	state     State
	buffer    []byte
	candidate string
	failures  int
	verifying bool

	// epoch invalidates scheduled timers: a timer captures the epoch
	// at scheduling and is a no-op if the gate has moved on.
	epoch        uint64
	settleTimer  Timer
	lockoutTimer Timer
}

// New builds a Gate. Call Start before feeding input.
func New(cfg Config) (*Gate, error) {
	if cfg.Vault == nil {
		return nil, errors.New("gate: vault is required")
	}
	g := &Gate{
		vault:         cfg.Vault,
		bio:           cfg.Biometrics,
		hydrator:      cfg.Hydrator,
		callbacks:     cfg.Callbacks,
		clock:         cfg.Clock,
		log:           cfg.Logger,
		settleDelay:   cfg.SettleDelay,
		lockoutWindow: cfg.LockoutWindow,
		state:         StateNoPIN,
	}
	if g.clock == nil {
		g.clock = realClock{}
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	if g.settleDelay <= 0 {
		g.settleDelay = DefaultSettleDelay
	}
	if g.lockoutWindow <= 0 {
		g.lockoutWindow = DefaultLockoutWindow
	}
	return g, nil
}

// Start probes the vault and enters the creation or verification flow.
// The context is retained for timer-driven verify submissions and for
// hydration.
func (g *Gate) Start(ctx context.Context) error {
	has, err := g.vault.HasPIN(ctx)
	if err != nil {
		return fmt.Errorf("probing credential: %w", err)
	}

	g.mu.Lock()
	g.ctx = ctx
	next := StateLockedVerify
	if !has {
		next = StateCreateEnter
	}
	g.setStateLocked(next)
	g.mu.Unlock()

	g.notifyState(next)
	return nil
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// FailedAttempts returns the consecutive verify failure count.
func (g *Gate) FailedAttempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures
}

// Entered returns how many digits of the current entry are buffered.
func (g *Gate) Entered() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buffer)
}

// BiometricAvailable reports whether the biometric shortcut can be
// offered: verify mode only, with hardware present and enrolled.
func (g *Gate) BiometricAvailable() bool {
	g.mu.Lock()
	inVerify := g.state == StateLockedVerify
	g.mu.Unlock()
	return inVerify && g.bio != nil && g.bio.HasHardware() && g.bio.IsEnrolled()
}

func (g *Gate) setStateLocked(s State) {
	g.state = s
}

func (g *Gate) notifyState(s State) {
	if g.callbacks.OnState != nil {
		g.callbacks.OnState(s)
	}
}

func (g *Gate) vibrate() {
	if g.callbacks.OnVibrate != nil {
		g.callbacks.OnVibrate()
	}
}
