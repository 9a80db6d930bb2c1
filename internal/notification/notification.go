// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/zhubert/sessionhop/internal/logger"
)

type notifyFunc func(title, message string, icon any) error

var (
	notifierMu sync.Mutex
	notifier   notifyFunc = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
// Tests use it to avoid raising real desktop notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	notifier = fn
}

// ResetNotifier restores beeep as the notification backend.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	notifierMu.Lock()
	notify := notifier
	notifierMu.Unlock()

	logger.Debug("Notification: Sending notification - title=%q, message=%q", title, message)
	// Empty icon lets beeep use the platform default
	err := notify(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send notification: %v", err)
	}
	return err
}

// SwitchFailed reports that switching to session did not succeed.
func SwitchFailed(session string, cause error) error {
	return Send("sessionhop", "could not switch to "+session+": "+cause.Error())
}
