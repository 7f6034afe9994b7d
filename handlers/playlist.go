package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alorle/hls-sorter/api"
	"github.com/alorle/hls-sorter/fetcher"
	"github.com/alorle/hls-sorter/logging"
	"github.com/alorle/hls-sorter/playlist"
	"github.com/alorle/hls-sorter/rewriter"
)

// PlaylistContentType is the media type of a served master playlist
const PlaylistContentType = "application/vnd.apple.mpegurl"

// PlaylistDependencies holds the dependencies needed by playlist handlers
type PlaylistDependencies struct {
	Logger   *slog.Logger
	Fetcher  fetcher.Interface
	Rewriter rewriter.Interface
}

// CreatePlaylistHandler serves the master playlist named by the url query
// parameter with every section sorted. Sort parameters replace the default
// keys of their section only.
func CreatePlaylistHandler(deps PlaylistDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.WithContext(r.Context(), deps.Logger)

		params, err := api.BindPlaylistParams(r)
		if err != nil {
			logging.WriteJSONError(w, logger, err.Error(), http.StatusBadRequest, "path", r.URL.Path)
			return
		}
		if !fetcher.IsRemote(params.URL) {
			logging.WriteJSONError(w, logger, "url must be an http or https URL", http.StatusBadRequest, "url", params.URL)
			return
		}

		override, err := rewriter.ParsePlan(params.Keys())
		if err != nil {
			logging.WriteJSONError(w, logger, err.Error(), http.StatusBadRequest, "url", params.URL)
			return
		}
		plan := deps.Rewriter.Plan().Override(override)

		res, err := deps.Fetcher.FetchWithCache(r.Context(), params.URL)
		if err != nil {
			logging.WriteJSONError(w, logger, "failed to fetch playlist", http.StatusBadGateway,
				"url", params.URL, "error", err)
			return
		}

		out, err := deps.Rewriter.RewriteWith(res.Content, plan)
		switch {
		case err == nil:
		case rewriter.IsInputError(err):
			logging.WriteJSONError(w, logger, err.Error(), http.StatusUnprocessableEntity, "url", params.URL)
			return
		case rewriter.IsPlanError(err):
			logging.WriteJSONError(w, logger, err.Error(), http.StatusBadRequest, "url", params.URL)
			return
		default:
			logging.WriteJSONError(w, logger, "failed to sort playlist", http.StatusInternalServerError,
				"url", params.URL, "error", err)
			return
		}

		logger.Info("serving sorted playlist",
			"url", params.URL,
			"cache", cacheStatus(res),
			"plan", plan.String(),
		)

		w.Header().Set("Content-Type", PlaylistContentType)
		w.Header().Set("X-Cache", cacheStatus(res))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(out); err != nil {
			logger.Warn("failed to write playlist response", "url", params.URL, "error", err)
		}
	}
}

func cacheStatus(res fetcher.Result) string {
	switch {
	case res.Stale:
		return "STALE"
	case res.FromCache:
		return "HIT"
	}
	return "MISS"
}

// CreateAttributesHandler lists the sort attributes each section accepts.
func CreateAttributesHandler(logger *slog.Logger) http.HandlerFunc {
	body := make(map[string][]string)
	for _, kind := range playlist.Kinds() {
		attrs := rewriter.Supported(kind)
		names := make([]string, len(attrs))
		for i, a := range attrs {
			names[i] = a.String()
		}
		body[kind.String()] = names
	}

	return func(w http.ResponseWriter, r *http.Request) {
		logging.WriteJSONSuccess(w, logging.WithContext(r.Context(), logger), body)
	}
}
