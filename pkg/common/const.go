package common

const (
	KEY_MARKET_DATA      = "market_data:%s:%d"
	KEY_SENTIMENT        = "sentiment:%s"
	KEY_BEHAVIOR_PROFILE = "behavior_profile:%s"
)

const (
	PROVIDER_ALPHA_VANTAGE = "alpha_vantage"
	PROVIDER_LINKUP        = "linkup"
	PROVIDER_FASTINO       = "fastino"
	PROVIDER_GEMINI        = "gemini"
)

const (
	BASE_STRATEGY_NAME = "MA Crossover + RSI"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)
