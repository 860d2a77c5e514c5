package telegram

import "strings"

// actionKind enumerates every inline-button action the bot understands.
type actionKind int

const (
	actionUnknown actionKind = iota
	actionMainMenu
	actionSettings
	actionStatus
	actionHelp
	actionToggleNotifications
	actionChangeTime
	actionChangeTimezone
	actionChangeType
	actionTestNotification
	actionBackToSettings
	actionSetTime     // payload: "HH:MM"
	actionSetTimezone // payload: city name, spaces restored
	actionSetType     // payload: catalog key
)

// callbackAction is the parsed form of a callback-data string: a tag plus
// an optional payload. Parsing happens exactly once, at the router
// boundary, so handlers never touch raw prefix strings.
type callbackAction struct {
	kind    actionKind
	payload string
}

// parseCallback maps raw callback data to a tagged action. Unrecognized
// data yields actionUnknown, which the router treats as a no-op.
// Multi-word city names arrive with underscores in place of spaces
// (Telegram callback data disallows free separators) and are restored here.
func parseCallback(data string) callbackAction {
	switch data {
	case "main_menu":
		return callbackAction{kind: actionMainMenu}
	case "settings":
		return callbackAction{kind: actionSettings}
	case "back_to_settings":
		return callbackAction{kind: actionBackToSettings}
	case "status":
		return callbackAction{kind: actionStatus}
	case "help":
		return callbackAction{kind: actionHelp}
	case "toggle_notifications":
		return callbackAction{kind: actionToggleNotifications}
	case "change_time":
		return callbackAction{kind: actionChangeTime}
	case "change_timezone":
		return callbackAction{kind: actionChangeTimezone}
	case "change_type":
		return callbackAction{kind: actionChangeType}
	case "test_notification":
		return callbackAction{kind: actionTestNotification}
	}

	switch {
	case strings.HasPrefix(data, "time_"):
		return callbackAction{kind: actionSetTime, payload: strings.TrimPrefix(data, "time_")}
	case strings.HasPrefix(data, "tz_"):
		city := strings.ReplaceAll(strings.TrimPrefix(data, "tz_"), "_", " ")
		return callbackAction{kind: actionSetTimezone, payload: city}
	case strings.HasPrefix(data, "type_"):
		return callbackAction{kind: actionSetType, payload: strings.TrimPrefix(data, "type_")}
	}
	return callbackAction{kind: actionUnknown}
}
