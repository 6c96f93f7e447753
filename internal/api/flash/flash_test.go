package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, notice Notice) (Notice, bool) {
	t.Helper()
	rec := httptest.NewRecorder()
	Write(rec, notice, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return ReadAndClear(httptest.NewRecorder(), req, false)
}

func TestWriteThenRead(t *testing.T) {
	got, ok := roundTrip(t, Warning("Username already taken"))
	require.True(t, ok)
	assert.Equal(t, KindWarning, got.Kind)
	assert.Equal(t, "Username already taken", got.Message)
}

func TestWrite_DropsInvalidNotices(t *testing.T) {
	for _, n := range []Notice{
		{Kind: KindSuccess, Message: "   "},
		{Kind: "error", Message: "unsupported kind"},
	} {
		rec := httptest.NewRecorder()
		Write(rec, n, false)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestReadAndClear_ExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%not-base64"})
	rec := httptest.NewRecorder()

	_, ok := ReadAndClear(rec, req, true)
	assert.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}

func TestReadAndClear_NoCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := ReadAndClear(rec, httptest.NewRequest(http.MethodGet, "/", nil), false)
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())
}
