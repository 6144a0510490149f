package port

// LocationPort - текущий URL страницы поиска для одной сессии.
type LocationPort interface {
	// RawQuery - query-строка без ведущего "?".
	RawQuery() string
	// ReplaceQuery заменяет query-строку целиком (без записи в историю).
	ReplaceQuery(rawQuery string)
	// URL - путь вместе с query-строкой.
	URL() string
}
