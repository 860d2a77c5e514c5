package domain

import "time"

// User is one registered chat participant and their reminder settings.
// JSON tags match both the legacy data file and the companion-app API.
type User struct {
	UserID       string    `json:"userId"`
	ChatID       int64     `json:"chatId,omitempty"` // 0 until the chat handshake
	Username     string    `json:"username,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	Enabled      bool      `json:"enabled"`
	Time         string    `json:"time"`     // local reminder time, "HH:MM"
	Timezone     string    `json:"timezone"` // city key into the offset table
	ReminderType string    `json:"reminderType"`
	HasStarted   bool      `json:"hasStarted"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActive   time.Time `json:"lastActive"`
}

const (
	DefaultTime     = "19:00"
	DefaultTimezone = "Москва"
	DefaultType     = "motivational"
)

// NewUser builds a user record with the defaults every new registration gets.
// Reminders start disabled; the user opts in through the settings menu.
func NewUser(userID string, now time.Time) *User {
	return &User{
		UserID:       userID,
		Enabled:      false,
		Time:         DefaultTime,
		Timezone:     DefaultTimezone,
		ReminderType: DefaultType,
		CreatedAt:    now.UTC(),
		LastActive:   now.UTC(),
	}
}
