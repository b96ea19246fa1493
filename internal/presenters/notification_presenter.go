package presenters

import (
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
)

// NotificationJSON is the API form of a notification. Type is nil when the
// stored type has no public name.
type NotificationJSON struct {
	GUID          string       `json:"guid"`
	Type          *string      `json:"type"`
	Read          bool         `json:"read"`
	CreatedAt     time.Time    `json:"created_at"`
	EventCreators []PersonJSON `json:"event_creators"`
	Target        *TargetJSON  `json:"target,omitempty"`
}

type TargetJSON struct {
	GUID   string     `json:"guid"`
	Author PersonJSON `json:"author"`
}

type NotificationPresenter struct {
	notification *models.Notification
}

func NewNotificationPresenter(n *models.Notification) NotificationPresenter {
	return NotificationPresenter{notification: n}
}

// AsAPIJSON renders the notification. The target is included only when
// includeTarget is set and the notification has one.
func (p NotificationPresenter) AsAPIJSON(includeTarget bool) NotificationJSON {
	n := p.notification
	out := NotificationJSON{
		GUID:          n.GUID,
		Type:          typeAsJSON(n.Type),
		Read:          !n.Unread,
		CreatedAt:     n.CreatedAt,
		EventCreators: creatorsJSON(n.Actors),
	}
	if includeTarget && n.Target != nil {
		out.Target = &TargetJSON{
			GUID:   n.Target.GUID,
			Author: NewPersonPresenter(&n.Target.Author).AsAPIJSON(),
		}
	}
	return out
}

func creatorsJSON(actors []models.Person) []PersonJSON {
	out := make([]PersonJSON, len(actors))
	for i := range actors {
		out[i] = NewPersonPresenter(&actors[i]).AsAPIJSON()
	}
	return out
}

func typeAsJSON(t models.NotificationType) *string {
	name, ok := t.APIName()
	if !ok {
		return nil
	}
	return &name
}
