package domain

import "math/rand"

// catalog maps a reminder type to its candidate message texts.
// The scheduler picks one uniformly at random per notification.
var catalog = map[string][]string{
	"motivational": {
		"🌟 Время развиваться! Всего 15 минут занятий сегодня — и ваш малыш станет чуточку умнее!",
		"💪 Каждое занятие — вклад в будущее ребенка. Начнем?",
		"🚀 Маленькие шаги каждый день приводят к большим результатам. Пора заниматься!",
		"✨ Лучшее время для развития — прямо сейчас. Ваш ребенок ждет!",
	},
	"simple": {
		"⏰ Напоминание: время занятий с ребенком.",
		"📚 Пора заниматься!",
		"🔔 Не забудьте про сегодняшнее занятие.",
	},
	"streak": {
		"🏆 Продолжайте серию занятий! Регулярность — главный секрет прогресса.",
		"📈 Еще одно занятие — еще один шаг вперед. Не прерывайте цепочку!",
		"🎯 Ваша настойчивость уже дает результаты. Сегодняшнее занятие ждет!",
	},
	"playful": {
		"🎮 Тук-тук! Кто готов к веселым занятиям? 🐻",
		"🎈 Время игр и открытий! Малыш уже заждался 😊",
		"🦄 Приключения начинаются! Пора на занятие!",
	},
}

// typeLabels are the human-readable names shown in menus.
var typeLabels = map[string]string{
	"motivational": "🌟 Мотивирующие",
	"simple":       "⏰ Простые",
	"streak":       "🏆 С достижениями",
	"playful":      "🎮 Игривые",
}

// ReminderTypes returns the catalog keys in menu order.
func ReminderTypes() []string {
	return []string{"motivational", "simple", "streak", "playful"}
}

// KnownType reports whether t is a catalog key.
func KnownType(t string) bool {
	_, ok := catalog[t]
	return ok
}

// TypeLabel returns the display name for a reminder type, falling back
// to the default type's label for unknown keys.
func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return typeLabels[DefaultType]
}

// MessagesFor returns the candidate texts for a reminder type.
// Unknown types fall back to the motivational set.
func MessagesFor(t string) []string {
	if msgs, ok := catalog[t]; ok {
		return msgs
	}
	return catalog[DefaultType]
}

// PickMessage selects one message uniformly at random for the type.
func PickMessage(t string) string {
	msgs := MessagesFor(t)
	return msgs[rand.Intn(len(msgs))]
}
