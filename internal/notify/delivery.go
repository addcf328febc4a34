// Package notify fans ticket lifecycle events out across independently
// configured channels: SMTP email, Discord and Telegram webhooks, and a
// Twilio-style SMS gateway. Every attempt is best-effort, at-most-once.
package notify

// DeliveryStatus describes the outcome of one channel attempt.
type DeliveryStatus string

const (
	// DeliverySent: the transport accepted the message.
	DeliverySent DeliveryStatus = "sent"
	// DeliveryLogged: the channel is not configured; the message was written
	// to the local log instead. Not an error.
	DeliveryLogged DeliveryStatus = "logged"
	// DeliveryFailed: the transport attempt failed. Isolated per channel.
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery is the explicit result of one channel attempt, so callers and
// tests can assert on degradation instead of scraping logs.
type Delivery struct {
	Channel string
	Target  string
	Status  DeliveryStatus
	Err     error
}

// Failed reports whether any delivery in the batch failed.
func Failed(deliveries []Delivery) bool {
	for _, d := range deliveries {
		if d.Status == DeliveryFailed {
			return true
		}
	}
	return false
}
