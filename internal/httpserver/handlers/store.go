package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/regiomag/regiomag/internal/config"
	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/lock"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/store/docstore"
)

const maxStoreBody = 10 << 20

// msgInvalidFormat is the envelope message for any request the endpoint does
// not recognize. Clients match on it, keep the wording stable.
const msgInvalidFormat = "Invalid request format"

type storeWriteRequest struct {
	Action string           `json:"action"`
	Data   *domain.Snapshot `json:"data"`
}

type storeWriteResponse struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Data      domain.Snapshot `json:"data"`
}

// Store serves the content store endpoint: one URL, two logical operations.
// GET (or POST with action=read) returns the whole document; POST with a
// {action:"sync",data:…} body overwrites it wholesale. Failures are reported
// in the body envelope at HTTP 200, never via status codes, because the wire
// protocol predates this server and its clients only inspect the body.
func Store(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		released, ok := acquireStoreLock(d, w, r)
		if !ok {
			return
		}
		defer released()

		if r.Method == http.MethodGet || r.URL.Query().Get("action") == "read" {
			storeRead(d, w, r)
			return
		}
		storeWrite(d, w, r)
	}
}

// acquireStoreLock waits for the exclusive store lock up to the configured
// bound. What happens on timeout is a deployment choice: refuse the request,
// or proceed unguarded the way the original document backend did.
func acquireStoreLock(d deps.Deps, w http.ResponseWriter, r *http.Request) (func(), bool) {
	err := d.StoreLock.Acquire(r.Context(), d.LockWait)
	if err == nil {
		return d.StoreLock.Release, true
	}

	if errors.Is(err, lock.ErrTimeout) && d.LockOnFail == config.LockProceed {
		d.Logger.Warn("store lock wait timed out, proceeding unguarded",
			logger.Duration("wait", d.LockWait))
		return func() {}, true
	}

	d.Logger.Warn("store lock unavailable", logger.Error(err))
	writeError(w, http.StatusOK, "Another process is updating the content. Please try again.")
	return nil, false
}

func storeRead(d deps.Deps, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if d.Engagement != nil {
		if body, err := d.Engagement.GetCachedDocument(ctx); err == nil && body != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
			return
		}
	}

	text, rev, err := d.Docs.Text(ctx)
	if err != nil {
		d.Logger.Error("failed to read document", logger.Error(err))
		writeError(w, http.StatusOK, err.Error())
		return
	}

	if d.Engagement != nil {
		if err := d.Engagement.CacheDocument(ctx, text, d.CacheTTL); err != nil {
			d.Logger.Warn("failed to cache document", logger.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag(rev))
	_, _ = io.WriteString(w, text)
}

func storeWrite(d deps.Deps, w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxStoreBody))
	if err != nil {
		writeError(w, http.StatusOK, msgInvalidFormat)
		return
	}

	// A bodiless POST is a read. Some clients cannot issue GET against the
	// original endpoint and poll this way instead.
	if len(strings.TrimSpace(string(raw))) == 0 {
		storeRead(d, w, r)
		return
	}

	var req storeWriteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusOK, msgInvalidFormat)
		return
	}
	if req.Action != "sync" || req.Data == nil {
		writeError(w, http.StatusOK, msgInvalidFormat)
		return
	}

	snap := *req.Data
	if snap.Articles == nil {
		snap.Articles = []domain.Article{}
	}
	if snap.Directory == nil {
		snap.Directory = []domain.Business{}
	}
	if err := domain.Validate(snap); err != nil {
		writeError(w, http.StatusOK, err.Error())
		return
	}
	domain.Normalize(&snap)

	rev, ts, err := writeSnapshot(d, r, snap)
	if err != nil {
		if errors.Is(err, docstore.ErrRevisionConflict) {
			writeError(w, http.StatusOK, "Revision conflict: content was modified by another client")
			return
		}
		d.Logger.Error("failed to write document", logger.Error(err))
		writeError(w, http.StatusOK, err.Error())
		return
	}

	d.Library.Replace(snap)
	if d.Engagement != nil {
		if err := d.Engagement.InvalidateDocument(r.Context()); err != nil {
			d.Logger.Warn("failed to invalidate document cache", logger.Error(err))
		}
	}

	w.Header().Set("ETag", etag(rev))
	writeJSON(w, http.StatusOK, storeWriteResponse{
		Status:    "success",
		Message:   "Content saved",
		Timestamp: ts.Format(time.RFC3339),
		Data:      snap,
	})
}

// writeSnapshot replaces the document, optionally guarded by the revision the
// client saw. An If-Match header opts into compare-and-swap; without it the
// write is plain last-writer-wins.
func writeSnapshot(d deps.Deps, r *http.Request, snap domain.Snapshot) (uint64, time.Time, error) {
	match := strings.Trim(r.Header.Get("If-Match"), `"`)
	if match == "" {
		return d.Docs.Replace(r.Context(), snap)
	}

	expected, err := strconv.ParseUint(match, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid If-Match revision %q", match)
	}
	return d.Docs.CompareAndSwap(r.Context(), snap, expected)
}

func etag(rev uint64) string {
	return `"` + strconv.FormatUint(rev, 10) + `"`
}
