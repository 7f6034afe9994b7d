package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	item := doc.Paths.Find("/playlist.m3u8")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Equal(t, "getSortedPlaylist", item.Get.OperationID)
	assert.NotNil(t, doc.Paths.Find("/attributes"))
	assert.NotNil(t, doc.Paths.Find("/health"))

	// copies are independent
	doc.Servers = nil
	again, err := GetSwagger()
	require.NoError(t, err)
	assert.Len(t, again.Servers, 1)
}

func playlistRequest(query url.Values) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/playlist.m3u8?"+query.Encode(), nil)
}

func TestBindPlaylistParams(t *testing.T) {
	r := playlistRequest(url.Values{
		"url":    {"https://cdn.example.com/master.m3u8?token=a,b"},
		"stream": {"RESOLUTION,BANDWIDTH"},
		"audio":  {"LANGUAGE"},
	})

	params, err := BindPlaylistParams(r)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/master.m3u8?token=a,b", params.URL)
	require.NotNil(t, params.Stream)
	assert.Equal(t, []string{"RESOLUTION", "BANDWIDTH"}, *params.Stream)
	require.NotNil(t, params.Audio)
	assert.Equal(t, []string{"LANGUAGE"}, *params.Audio)
	assert.Nil(t, params.Iframe)

	stream, audio, iframe := params.Keys()
	assert.Equal(t, []string{"RESOLUTION", "BANDWIDTH"}, stream)
	assert.Equal(t, []string{"LANGUAGE"}, audio)
	assert.Nil(t, iframe)
}

func TestBindPlaylistParamsMissingURL(t *testing.T) {
	_, err := BindPlaylistParams(playlistRequest(url.Values{"stream": {"BANDWIDTH"}}))
	require.Error(t, err)

	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "url", pe.Name)
	assert.Contains(t, err.Error(), "parameter url")
}

func TestRequestValidator(t *testing.T) {
	var gotStatus int
	mw, err := RequestValidator(func(w http.ResponseWriter, message string, statusCode int) {
		gotStatus = statusCode
		http.Error(w, message, statusCode)
	})
	require.NoError(t, err)

	reached := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid request passes", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, playlistRequest(url.Values{
			"url":    {"https://cdn.example.com/master.m3u8"},
			"iframe": {"CODECS"},
		}))
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing url is rejected", func(t *testing.T) {
		reached = false
		gotStatus = 0
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, playlistRequest(url.Values{"stream": {"BANDWIDTH"}}))
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, gotStatus)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
