package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"tiffycooks/models"
)

// InviteWorker periodically marks pending invitations past their expiry
// as expired, so the invite list and the redeem path agree on state.
type InviteWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewInviteWorker(db *gorm.DB, logger *log.Logger) *InviteWorker {
	return &InviteWorker{
		DB:     db,
		Logger: logger,
	}
}

func (iw *InviteWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	iw.Logger.Println("Invite expiry worker started")

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			iw.Logger.Println("Invite expiry worker shutting down...")
			return
		case <-ticker.C:
			iw.SweepExpired()
		}
	}
}

// SweepExpired transitions pending invites past ExpiresAt to expired.
func (iw *InviteWorker) SweepExpired() {
	result := iw.DB.Model(&models.TeamInvite{}).
		Where("status = ? AND expires_at < ?", models.InviteStatusPending, time.Now()).
		Update("status", models.InviteStatusExpired)
	if result.Error != nil {
		iw.Logger.Printf("Error sweeping expired invites: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		iw.Logger.Printf("Expired %d stale invitations", result.RowsAffected)
	}
}
