package domain

import "time"

// DefaultOffsetHours is used when a user's city is not in the table.
const DefaultOffsetHours = 3 // Москва

// cityOffsets maps a city name to its fixed UTC offset in hours.
// A static table, not IANA data: the product only targets these cities
// and none of them observe DST.
var cityOffsets = map[string]int{
	"Калининград":     2,
	"Москва":          3,
	"Санкт-Петербург": 3,
	"Нижний Новгород": 3,
	"Самара":          4,
	"Екатеринбург":    5,
	"Омск":            6,
	"Новосибирск":     7,
	"Красноярск":      7,
	"Иркутск":         8,
	"Якутск":          9,
	"Владивосток":     10,
	"Магадан":         11,
	"Камчатка":        12,
}

// OffsetHours returns the UTC offset for a city, falling back to the
// default when the city is unknown.
func OffsetHours(city string) int {
	if off, ok := cityOffsets[city]; ok {
		return off
	}
	return DefaultOffsetHours
}

// KnownCity reports whether city is present in the offset table.
func KnownCity(city string) bool {
	_, ok := cityOffsets[city]
	return ok
}

// Cities returns the table's city names in menu order (west to east).
func Cities() []string {
	return []string{
		"Калининград",
		"Москва",
		"Санкт-Петербург",
		"Нижний Новгород",
		"Самара",
		"Екатеринбург",
		"Омск",
		"Новосибирск",
		"Красноярск",
		"Иркутск",
		"Якутск",
		"Владивосток",
		"Магадан",
		"Камчатка",
	}
}

// LocalClock formats now shifted into the city's offset as "HH:MM".
func LocalClock(now time.Time, city string) string {
	return now.UTC().Add(time.Duration(OffsetHours(city)) * time.Hour).Format("15:04")
}
