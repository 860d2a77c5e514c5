package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
)

const (
	welcomeText = "🌟 *Добро пожаловать в Развивайка!*\n\n" +
		"Я помогу вам не забывать о развивающих занятиях с ребенком!\n\n" +
		"Настройте уведомления с помощью кнопок ниже:"

	mainMenuText = "🌟 *Развивайка - Главное меню*\n\nВыберите действие:"

	helpText = "❓ *Справка*\n\n" +
		"*Команды:*\n" +
		"/start - Запуск бота\n" +
		"/app - Открыть приложение\n" +
		"/settings - Настройки уведомлений\n" +
		"/status - Текущий статус\n" +
		"/notify HH:MM - Установить время\n" +
		"/time - Выбрать время из списка\n\n" +
		"*Типы уведомлений:*\n" +
		"🌟 Мотивирующие - вдохновляющие сообщения\n" +
		"⏰ Простые - краткие напоминания\n" +
		"🏆 С достижениями - акцент на прогрессе\n" +
		"🎮 Игривые - веселые сообщения\n\n" +
		"Удачного развития! 🚀"

	startFirstText  = "Сначала отправьте /start"
	genericErrText  = "Произошла ошибка. Попробуйте позже."
	notifyUsageText = "⏰ Неверный формат времени.\n\nИспользуйте: /notify HH:MM\nНапример: /notify 08:15"
	appText         = "📱 *Развивайка*\n\nОткройте приложение для занятий:"
)

// timeSlots are the preset reminder times offered in the picker.
var timeSlots = []string{
	"07:00", "08:00", "09:00",
	"10:00", "11:00", "12:00",
	"14:00", "16:00", "18:00",
	"19:00", "20:00", "21:00",
}

func settingsText(u *domain.User) string {
	state := "🔴"
	word := "Выключены"
	if u.Enabled {
		state = "🟢"
		word = "Включены"
	}
	return fmt.Sprintf(
		"⚙️ *Настройки уведомлений*\n\n"+
			"%s Уведомления: %s\n"+
			"⏰ Время: %s\n"+
			"🌍 Часовой пояс: %s (UTC+%d)\n"+
			"💬 Тип сообщений: %s",
		state, word, u.Time, u.Timezone, domain.OffsetHours(u.Timezone), domain.TypeLabel(u.ReminderType),
	)
}

func statusText(u *domain.User) string {
	state := "🔴 Выключены"
	next := "Уведомления отключены"
	if u.Enabled {
		state = "🟢 Включены"
		next = fmt.Sprintf("Следующее уведомление сегодня в %s (%s)", u.Time, u.Timezone)
	}
	return fmt.Sprintf(
		"📊 *Ваш статус*\n\n%s\n⏰ %s\n🌍 Часовой пояс: %s\n💬 Тип: %s",
		state, next, u.Timezone, domain.TypeLabel(u.ReminderType),
	)
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Настройки уведомлений", "settings"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Мой статус", "status"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", "help"),
		),
	)
}

func settingsKeyboard(u *domain.User) tgbotapi.InlineKeyboardMarkup {
	toggle := "🔕 Включить уведомления"
	if u.Enabled {
		toggle = "🔔 Выключить уведомления"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, "toggle_notifications"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏰ Время: "+u.Time, "change_time"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Город: "+u.Timezone, "change_timezone"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Тип: "+domain.TypeLabel(u.ReminderType), "change_type"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📱 Тест уведомления", "test_notification"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "main_menu"),
		),
	)
}

func statusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Изменить настройки", "settings"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "main_menu"),
		),
	)
}

func helpKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "main_menu"),
		),
	)
}

// timeKeyboard lays the preset slots out three per row.
func timeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(timeSlots); i += 3 {
		end := i + 3
		if end > len(timeSlots) {
			end = len(timeSlots)
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, slot := range timeSlots[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(slot, "time_"+slot))
		}
		rows = append(rows, row)
	}
	rows = append(rows, backToSettingsRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timezoneKeyboard lays the cities out two per row. Spaces in city names
// become underscores in callback data and are restored by the parser.
func timezoneKeyboard() tgbotapi.InlineKeyboardMarkup {
	cities := domain.Cities()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(cities); i += 2 {
		end := i + 2
		if end > len(cities) {
			end = len(cities)
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, city := range cities[i:end] {
			data := "tz_" + strings.ReplaceAll(city, " ", "_")
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(city, data))
		}
		rows = append(rows, row)
	}
	rows = append(rows, backToSettingsRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func typeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, typ := range domain.ReminderTypes() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(domain.TypeLabel(typ), "type_"+typ),
		))
	}
	rows = append(rows, backToSettingsRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func appKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🚀 Открыть Развивайка", url),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "main_menu"),
		),
	)
}

func backToSettingsRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад к настройкам", "back_to_settings"),
	)
}
