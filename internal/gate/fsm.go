package gate

import (
	"context"
	"errors"
	"fmt"
)

// ErrBiometricFailed is returned when the platform prompt resolves
// without a match. The gate state is unchanged; the caller re-prompts.
var ErrBiometricFailed = errors.New("gate: biometric authentication failed")

const biometricPrompt = "Unlock Amani"

// Press feeds one digit into the current flow. Non-digit bytes and
// input outside an entry state are silently dropped, as is input while
// a verification is in flight or during lockout.
func (g *Gate) Press(ctx context.Context, digit byte) error {
	if digit < '0' || digit > '9' {
		return nil
	}

	g.mu.Lock()
	switch g.state {
	case StateCreateEnter:
		g.buffer = append(g.buffer, digit)
		if len(g.buffer) < pinLength {
			g.mu.Unlock()
			return nil
		}
		g.candidate = string(g.buffer)
		g.buffer = nil
		g.setStateLocked(StateCreateConfirm)
		g.mu.Unlock()
		g.notifyState(StateCreateConfirm)
		return nil

	case StateCreateConfirm:
		g.buffer = append(g.buffer, digit)
		if len(g.buffer) < pinLength {
			g.mu.Unlock()
			return nil
		}
		entry := string(g.buffer)
		g.buffer = nil
		if entry != g.candidate {
			g.candidate = ""
			g.setStateLocked(StateCreateEnter)
			g.mu.Unlock()
			g.vibrate()
			g.notifyState(StateCreateEnter)
			return nil
		}
		pin := g.candidate
		g.candidate = ""
		g.mu.Unlock()

		if err := g.vault.SetPIN(ctx, pin); err != nil {
			g.mu.Lock()
			g.setStateLocked(StateCreateEnter)
			g.mu.Unlock()
			g.notifyState(StateCreateEnter)
			return fmt.Errorf("storing pin: %w", err)
		}
		g.unlock(ctx, true)
		return nil

	case StateLockedVerify:
		if g.verifying || len(g.buffer) >= pinLength {
			g.mu.Unlock()
			return nil
		}
		g.buffer = append(g.buffer, digit)
		if len(g.buffer) == pinLength {
			// Let the last digit render before the submit kicks in.
			e := g.epoch
			g.settleTimer = g.clock.AfterFunc(g.settleDelay, func() { g.settleFired(e) })
		}
		g.mu.Unlock()
		return nil

	default:
		g.mu.Unlock()
		return nil
	}
}

// Backspace removes the last buffered digit. A full verify entry whose
// settle timer has not fired yet is pulled back from submission.
func (g *Gate) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateCreateEnter, StateCreateConfirm, StateLockedVerify:
	default:
		return
	}
	if g.verifying || len(g.buffer) == 0 {
		return
	}
	if g.settleTimer != nil {
		g.settleTimer.Stop()
		g.settleTimer = nil
		g.epoch++
	}
	g.buffer = g.buffer[:len(g.buffer)-1]
}

// Cancel abandons the creation flow without persisting anything and
// hands control back to the caller via OnExit. A no-op outside the
// creation states.
func (g *Gate) Cancel() {
	g.mu.Lock()
	if g.state != StateCreateEnter && g.state != StateCreateConfirm {
		g.mu.Unlock()
		return
	}
	g.buffer = nil
	g.candidate = ""
	g.setStateLocked(StateNoPIN)
	g.mu.Unlock()

	g.notifyState(StateNoPIN)
	if g.callbacks.OnExit != nil {
		g.callbacks.OnExit()
	}
}

// BiometricUnlock runs the platform prompt. Success unlocks without
// touching the failed-attempt counter; failure leaves the gate exactly
// where it was.
func (g *Gate) BiometricUnlock(ctx context.Context) error {
	if !g.BiometricAvailable() {
		return errors.New("gate: biometrics unavailable")
	}
	g.mu.Lock()
	if g.state != StateLockedVerify || g.verifying {
		g.mu.Unlock()
		return errors.New("gate: biometrics unavailable")
	}
	g.mu.Unlock()

	ok, err := g.bio.Authenticate(ctx, biometricPrompt)
	if err != nil {
		return fmt.Errorf("biometric prompt: %w", err)
	}
	if !ok {
		return ErrBiometricFailed
	}
	g.unlock(ctx, false)
	return nil
}

// Reset tears the gate down: pending settle and lockout timers are
// invalidated so a late fire cannot touch the counter, and all entry
// state is discarded. Call Start to use the gate again.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.cancelTimersLocked()
	g.buffer = nil
	g.candidate = ""
	g.failures = 0
	g.setStateLocked(StateNoPIN)
	g.mu.Unlock()

	g.notifyState(StateNoPIN)
}

// settleFired submits the buffered entry to the vault. The captured
// epoch guards against firing into a gate that has moved on.
func (g *Gate) settleFired(e uint64) {
	g.mu.Lock()
	if e != g.epoch || g.state != StateLockedVerify || g.verifying || len(g.buffer) != pinLength {
		g.mu.Unlock()
		return
	}
	g.verifying = true
	g.settleTimer = nil
	pin := string(g.buffer)
	ctx := g.ctx
	g.mu.Unlock()

	ok, err := g.vault.VerifyPIN(ctx, pin)

	g.mu.Lock()
	g.verifying = false
	if e != g.epoch || g.state != StateLockedVerify {
		g.mu.Unlock()
		return
	}
	g.buffer = nil
	if err != nil {
		g.mu.Unlock()
		g.log.Warn("pin verification errored", "error", err)
		g.vibrate()
		return
	}
	if ok {
		g.failures = 0
		g.mu.Unlock()
		g.unlock(ctx, true)
		return
	}

	g.failures++
	if g.failures < maxFailures {
		g.mu.Unlock()
		g.vibrate()
		return
	}
	g.cancelTimersLocked()
	le := g.epoch
	g.setStateLocked(StateLockedOut)
	g.lockoutTimer = g.clock.AfterFunc(g.lockoutWindow, func() { g.lockoutElapsed(le) })
	g.mu.Unlock()

	g.vibrate()
	g.notifyState(StateLockedOut)
}

// lockoutElapsed reopens verification and zeroes the counter, unless
// the epoch shows the lockout was torn down in the meantime.
func (g *Gate) lockoutElapsed(e uint64) {
	g.mu.Lock()
	if e != g.epoch || g.state != StateLockedOut {
		g.mu.Unlock()
		return
	}
	g.failures = 0
	g.lockoutTimer = nil
	g.setStateLocked(StateLockedVerify)
	g.mu.Unlock()

	g.notifyState(StateLockedVerify)
}

// unlock moves to Unlocked and runs hydration once. resetCounter is
// false for the biometric path, which leaves the counter alone.
func (g *Gate) unlock(ctx context.Context, resetCounter bool) {
	g.mu.Lock()
	g.cancelTimersLocked()
	g.buffer = nil
	if resetCounter {
		g.failures = 0
	}
	g.setStateLocked(StateUnlocked)
	g.mu.Unlock()

	g.notifyState(StateUnlocked)
	if g.hydrator != nil {
		g.hydrator.Hydrate(ctx)
	}
}

// cancelTimersLocked bumps the epoch so any timer that already fired
// and is waiting on the lock becomes a no-op.
func (g *Gate) cancelTimersLocked() {
	g.epoch++
	if g.settleTimer != nil {
		g.settleTimer.Stop()
		g.settleTimer = nil
	}
	if g.lockoutTimer != nil {
		g.lockoutTimer.Stop()
		g.lockoutTimer = nil
	}
}
