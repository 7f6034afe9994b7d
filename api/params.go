package api

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// PlaylistParams are the query parameters of GET /playlist.m3u8.
type PlaylistParams struct {
	// URL of the master playlist to sort
	URL string

	// Sort keys per section. Nil means the server default.
	Stream *[]string
	Audio  *[]string
	Iframe *[]string
}

// ParamError reports a query parameter that could not be bound.
type ParamError struct {
	Name string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.Name, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// BindPlaylistParams reads PlaylistParams from r. Sort keys are
// comma-separated: stream=RESOLUTION,BANDWIDTH.
func BindPlaylistParams(r *http.Request) (PlaylistParams, error) {
	var params PlaylistParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "url", query, &params.URL); err != nil {
		return params, &ParamError{Name: "url", Err: err}
	}
	if err := runtime.BindQueryParameter("form", false, false, "stream", query, &params.Stream); err != nil {
		return params, &ParamError{Name: "stream", Err: err}
	}
	if err := runtime.BindQueryParameter("form", false, false, "audio", query, &params.Audio); err != nil {
		return params, &ParamError{Name: "audio", Err: err}
	}
	if err := runtime.BindQueryParameter("form", false, false, "iframe", query, &params.Iframe); err != nil {
		return params, &ParamError{Name: "iframe", Err: err}
	}

	return params, nil
}

// Keys returns the stream, audio and iframe keys, nil where unset.
func (p PlaylistParams) Keys() (stream, audio, iframe []string) {
	deref := func(v *[]string) []string {
		if v == nil {
			return nil
		}
		return *v
	}
	return deref(p.Stream), deref(p.Audio), deref(p.Iframe)
}
