// Package notify sends desktop notifications.
package notify

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string  // icon name or path
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID. Unavailable backends
	// return 0 and nil.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Nop returns a Notifier that discards everything.
func Nop() Notifier {
	return stubNotifier{}
}

type stubNotifier struct{}

func (stubNotifier) Notify(_ Notification) (uint32, error) {
	return 0, nil
}

func (stubNotifier) Close(_ uint32) error {
	return nil
}
