package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenova/internal/models"
)

func TestCancelBookingFilterBindsOwnerAndStatus(t *testing.T) {
	bookingID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := cancelBookingFilter(bookingID, userID)

	if filter["_id"] != bookingID {
		t.Errorf("filter _id = %v, want %v", filter["_id"], bookingID)
	}
	if filter["user"] != userID {
		t.Errorf("filter user = %v, want %v", filter["user"], userID)
	}
	// only a pending booking may cancel; a confirmed or completed one must
	// read as not found
	if filter["status"] != models.BookingPending {
		t.Errorf("filter status = %v, want %q", filter["status"], models.BookingPending)
	}
	if len(filter) != 3 {
		t.Errorf("filter has %d conditions, want 3", len(filter))
	}
}
