package driven

import (
	"context"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// Notifier delivers user-facing notifications (toasts in the GUI, stderr
// lines in the CLI).
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
