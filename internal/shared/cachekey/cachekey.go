// Package cachekey centralizes cache key names so writers and invalidators agree.
package cachekey

import "strings"

const (
	BlogList = "blogs:list"
	UserList = "users:list"
)

// Identity caches the authenticated principal for a user id.
func Identity(userID string) string {
	return "identity:" + userID
}

// LoginAttempts counts failed logins for a username within the lockout window.
func LoginAttempts(username string) string {
	return "login:attempts:" + strings.ToLower(username)
}
