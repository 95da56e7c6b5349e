package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"peerlearn/config"
)

// CompletionEvent is posted to the configured webhook after an enrollment
// completes. Delivery is best-effort; the completion itself has already
// committed.
type CompletionEvent struct {
	StudentID         uint   `json:"student_id"`
	CourseID          uint   `json:"course_id"`
	CertificateNumber string `json:"certificate_number"`
	XPAwarded         uint   `json:"xp_awarded"`
}

// NotifyCompletion posts the event to COMPLETION_WEBHOOK_URL, if set.
// Call it from a goroutine; it never blocks a request path.
func NotifyCompletion(event CompletionEvent) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		log.Printf("Error posting completion webhook: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("Completion webhook responded %d: %s", resp.StatusCode(), resp.String())
	}
}
