package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

func TestRequestOrigin_ClientIP(t *testing.T) {
	tests := []struct {
		name   string
		origin RequestOrigin
		want   string
	}{
		{
			name:   "forwarded for wins",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "203.0.113.9", "Proxy-Client-IP": "198.51.100.1"}, RemoteAddr: "10.0.0.1:5555"},
			want:   "203.0.113.9",
		},
		{
			name:   "first hop of a list",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}},
			want:   "203.0.113.9",
		},
		{
			name:   "unknown is skipped case-insensitively",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "UnKnOwN", "WL-Proxy-Client-IP": "198.51.100.7"}},
			want:   "198.51.100.7",
		},
		{
			name:   "legacy underscore headers",
			origin: RequestOrigin{Headers: map[string]string{"HTTP_X_FORWARDED_FOR": "198.51.100.8"}},
			want:   "198.51.100.8",
		},
		{
			name:   "falls back to remote address without port",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": ""}, RemoteAddr: "192.0.2.4:41000"},
			want:   "192.0.2.4",
		},
		{
			name:   "ipv6 remote address",
			origin: RequestOrigin{RemoteAddr: "[::1]:8080"},
			want:   "::1",
		},
		{
			name:   "oversized forwarded value falls through to remote address",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": strings.Repeat("a", 100)}, RemoteAddr: "192.0.2.10:5000"},
			want:   "192.0.2.10",
		},
		{
			name:   "non address hop falls through to the next header",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "<script>", "Proxy-Client-IP": "198.51.100.2"}},
			want:   "198.51.100.2",
		},
		{
			name:   "hop with port",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "203.0.113.9:8443"}},
			want:   "203.0.113.9",
		},
		{
			name:   "ipv6 zone is dropped",
			origin: RequestOrigin{Headers: map[string]string{"X-Forwarded-For": "fe80::1%" + strings.Repeat("z", 80)}},
			want:   "fe80::1",
		},
		{
			name:   "unparsable remote address is bounded",
			origin: RequestOrigin{RemoteAddr: strings.Repeat("b", 100)},
			want:   strings.Repeat("b", MaxIPAddressLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.origin.ClientIP())
		})
	}
}

func TestTruncateDetails(t *testing.T) {
	short := "Merged files: a.pdf and b.pdf into merged.pdf"
	assert.Equal(t, short, TruncateDetails(short))

	long := strings.Repeat("é", MaxRequestDetailsLength+50)
	got := TruncateDetails(long)
	assert.Equal(t, MaxRequestDetailsLength, len([]rune(got)))
}

func TestNormalizeTimestamp(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	in := time.Date(2024, 3, 1, 9, 0, 0, 123456789, loc)

	got := NormalizeTimestamp(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123456000, got.Nanosecond())
	assert.True(t, got.Equal(in.Truncate(time.Microsecond)))
}

func TestUser_FullNameAndPrincipal(t *testing.T) {
	email, _ := valueobject.NewEmail("jane@example.com")
	u := &User{ID: 3, FirstName: "Jane", LastName: "Doe", Email: email, Role: valueobject.RoleUser}

	assert.Equal(t, "Jane Doe", u.FullName())
	p := u.Principal()
	assert.Equal(t, int64(3), p.UserID)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.True(t, p.HasRole(valueobject.RoleUser, valueobject.RoleAdmin))
	assert.False(t, p.HasRole(valueobject.RoleAdmin))

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.HasRole(valueobject.RoleUser))
}
