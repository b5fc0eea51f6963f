// Package queue defines message payloads exchanged over the message broker.
package queue

// VerificationEmailEvent is published when an account signs up and needs
// its email verified. It carries everything the mail consumer needs to
// deliver the message without querying the primary database.
type VerificationEmailEvent struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	VerifyURL   string `json:"verify_url"`
	RequestedAt string `json:"requested_at"`
}
