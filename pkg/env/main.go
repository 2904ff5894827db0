package env

import (
	"log"
	"os"
	"strconv"
)

const telegramBotToken = "TELEGRAM_BOT_TOKEN"
const postgresConnectionString = "POSTGRES_CONNECTION_STRING"
const listenAddress = "LISTEN_ADDRESS"
const sweepIntervalSeconds = "SWEEP_INTERVAL_SECONDS"
const digestCron = "DIGEST_CRON"

type EmptyValueError struct {
	key string
}

func (e *EmptyValueError) Error() string {
	return "No environmental variable set for key " + e.key
}

func BotToken(ref *string) bool                 { return env(telegramBotToken, ref) }
func PostgresConnectionString(ref *string) bool { return env(postgresConnectionString, ref) }

// ListenAddress and DigestCron are optional, so a missing value is not logged.
func ListenAddress(ref *string) bool { return optional(listenAddress, ref) }
func DigestCron(ref *string) bool    { return optional(digestCron, ref) }

func SweepIntervalSeconds(ref *int64) bool {
	var str string
	if !optional(sweepIntervalSeconds, &str) {
		return false
	}

	value, err := strconv.ParseInt(str, 10, 64)
	if nil != err {
		log.Println("unable to parse sweep interval:", err)
		return false
	}

	*ref = value
	return true
}

func env(key string, ref *string) bool {
	if !optional(key, ref) {
		log.Println(&EmptyValueError{key})
		return false
	}
	return true
}

func optional(key string, ref *string) bool {
	value, valid := os.LookupEnv(key)
	if "" == value || !valid {
		return false
	}
	*ref = value
	return true
}
