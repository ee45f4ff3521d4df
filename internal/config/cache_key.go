package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active login JTI.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// EmailVerifyKey returns the cache key for a pending email verification token.
func (r *CacheKeyStruct) EmailVerifyKey(token string) string {
	return fmt.Sprintf("verify:%s", token)
}

// UserResultsChannel returns the Redis PubSub channel notified whenever a new
// quiz result lands for the user.
func (r *CacheKeyStruct) UserResultsChannel(userID string) string {
	return fmt.Sprintf("user:%s:results", userID)
}

var CacheKey = NewCacheKeyStruct()
