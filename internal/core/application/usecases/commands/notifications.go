package commands

import (
	"context"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/ports"
)

func parcelData(p *parcel.Parcel) map[string]string {
	data := map[string]string{
		"parcel_id":     p.ID().String(),
		"status":        p.Status().String(),
		"pickup":        p.Pickup().Text(),
		"destination":   p.Destination().Text(),
		"weight":        p.Weight().String(),
		"receiver_name": p.Receiver().Name(),
	}
	if id := p.AssignedCourierID(); id != nil {
		data["courier_id"] = id.String()
	}
	return data
}

func notificationFor(kind ports.NotificationKind, recipient *user.User, data map[string]string) ports.Notification {
	return ports.Notification{
		Kind:           kind,
		RecipientEmail: recipient.Email(),
		RecipientName:  recipient.Name(),
		Data:           data,
	}
}

// lookupRecipients loads users to notify. Misses and read errors only cost
// a notification, so they are skipped.
func lookupRecipients(ctx context.Context, users ports.UserRepository, ids ...*kernel.UUID) []*user.User {
	recipients := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		u, err := users.Get(ctx, *id)
		if err != nil {
			continue
		}
		recipients = append(recipients, u)
	}
	return recipients
}
