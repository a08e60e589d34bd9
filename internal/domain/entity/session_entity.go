package entity

import "time"

// Cookie is a backend cookie (notably the refresh token) held on behalf of
// the browser.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Session is the client-held record of the current user and access token.
// It is keyed by the browser's device ID; an anonymous device has none.
type Session struct {
	DeviceID    string    `json:"device_id"`
	AccessToken string    `json:"access_token,omitempty"`
	Cookies     []Cookie  `json:"cookies,omitempty"`
	User        *User     `json:"user,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// MergeCookies replaces cookies by name, appends new ones and drops those
// the backend expired.
func (s *Session) MergeCookies(in []Cookie, now time.Time) {
	for _, ck := range in {
		idx := -1
		for i := range s.Cookies {
			if s.Cookies[i].Name == ck.Name {
				idx = i
				break
			}
		}
		expired := ck.Value == "" || (!ck.Expires.IsZero() && !ck.Expires.After(now))
		switch {
		case idx >= 0 && expired:
			s.Cookies = append(s.Cookies[:idx], s.Cookies[idx+1:]...)
		case idx >= 0:
			s.Cookies[idx] = ck
		case !expired:
			s.Cookies = append(s.Cookies, ck)
		}
	}
}
