package server

import (
	"context"
	"net/http"
)

// UserInfo is the identity attached to each request. On a tailnet it
// comes from WhoIs; in dev mode it is a fixed local user.
type UserInfo struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

type contextKey int

const userInfoKey contextKey = iota

var devUser = UserInfo{UID: "local", DisplayName: "Local Dev User"}

// Identity resolves the requesting user. With a tailscale client
// configured, the tailnet login name is the uid; otherwise every
// request runs as the dev identity. Failed lookups are rejected rather
// than silently mixing users' recording state.
func (s *Server) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := devUser
		if s.tsClient != nil {
			who, err := s.tsClient.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil {
				s.log.Error("whois failed", "remote", r.RemoteAddr, "error", err)
				http.Error(w, `{"error":"identity lookup failed"}`, http.StatusUnauthorized)
				return
			}
			info = UserInfo{
				UID:         who.UserProfile.LoginName,
				DisplayName: who.UserProfile.DisplayName,
				PhotoURL:    who.UserProfile.ProfilePicURL,
			}
		}
		ctx := context.WithValue(r.Context(), userInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the identity set by the Identity middleware,
// falling back to the dev user when none was set (direct handler tests).
func userFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return devUser
}
