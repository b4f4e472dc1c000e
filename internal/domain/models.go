package domain

// Question is a single multiple-choice question. Immutable after the catalog loads it.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"` // exactly 4 in authored content
	Answer  string   `json:"answer"`
}

// Quiz is the ordered question sequence for one topic. Question order is
// significant: submitted answers are matched by 1-based position.
type Quiz struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// SubmissionResult summarizes one graded submission.
type SubmissionResult struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Topic string `json:"topic"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// LeaderboardEntry is one persisted attempt record.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Topic string `json:"topic"`
	Score int    `json:"score"`
	Total int    `json:"total"`
	Date  string `json:"date"`
}

// LeaderboardDateFormat is the timestamp layout stored in leaderboard entries.
const LeaderboardDateFormat = "02-01-2006 15:04"

// LeaderboardCap bounds the persisted leaderboard: after every record the
// collection is re-sorted descending by score and truncated to this size,
// globally across topics.
const LeaderboardCap = 50

// NotificationStatus reports what happened to the certificate email for a submission.
type NotificationStatus string

const (
	// NotificationSent means the certificate was emailed successfully.
	NotificationSent NotificationStatus = "sent"
	// NotificationFailed means the certificate exists but emailing it failed.
	NotificationFailed NotificationStatus = "failed"
	// NotificationSkipped means the score was below the certificate threshold.
	NotificationSkipped NotificationStatus = "skipped"
)
