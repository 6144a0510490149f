package constants

// Обменник событий сервиса поиска
const (
	SearchExchange     = "search_exchange"
	SearchExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyInquiryCreated = "inquiry.created"
)
