package errors

import (
	stderrs "errors"

	"github.com/redis/go-redis/v9"
)

// FromRedis maps redis.Nil to not found and everything else to unavailable
func FromRedis(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, redis.Nil) {
		return Wrap(err, ErrorCodeNotFound, msg)
	}
	return Wrap(err, ErrorCodeUnavailable, msg)
}
