package kafka_client

import "time"

// Scored-later reviews submitted through the API.
const KAFKA_TOPIC_REVIEW_REQUESTS = "review-requests"

const (
	MAX_RETRIES  = 5
	RETRY_DELAY  = 2 * time.Second
	POLL_TIMEOUT = 100 * time.Millisecond
)
