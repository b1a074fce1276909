package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/imusici/academy-system/internal/core/domain"
)

// Notifications are inserted by struct marshaling, so the keys the
// List/CountActive queries filter on must be the ones the marshaled
// document actually carries.
func TestNotificationQueryKeysMatchStoredDocument(t *testing.T) {
	notification := domain.Notification{
		ID:            "n-1",
		Title:         "Saggio di fine anno",
		Message:       "Iscrizioni aperte",
		Type:          domain.NotificationGeneral,
		RecipientType: domain.RecipientsAll,
		RecipientIDs:  []string{},
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	raw, err := bson.Marshal(notification)
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}

	active, ok := doc[notificationActiveField]
	if !ok {
		t.Fatalf("stored document has no %q key; keys: %v", notificationActiveField, docKeys(doc))
	}
	if active != true {
		t.Fatalf("stored %s = %v, want true", notificationActiveField, active)
	}

	// List also filters on the recipient list.
	if _, ok := doc["destinatari_ids"]; !ok {
		t.Fatalf("stored document has no destinatari_ids key; keys: %v", docKeys(doc))
	}
}

func docKeys(doc bson.M) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	return keys
}
