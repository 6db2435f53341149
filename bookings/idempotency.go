package bookings

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitIdempotencyIndexes creates the necessary indexes (unique key + TTL).
func InitIdempotencyIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := db.IdempotencyCollection.Indexes().CreateMany(ctx, idxs)
	return err
}

func computeRequestHash(r *http.Request, bodyBytes []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// captureResponseWriter wraps http.ResponseWriter to capture status and body.
type captureResponseWriter struct {
	w           http.ResponseWriter
	statusCode  int
	buf         bytes.Buffer
	wroteHeader bool
}

func newCaptureResponseWriter(w http.ResponseWriter) *captureResponseWriter {
	return &captureResponseWriter{w: w, statusCode: http.StatusOK}
}

func (c *captureResponseWriter) Header() http.Header {
	return c.w.Header()
}

func (c *captureResponseWriter) WriteHeader(statusCode int) {
	if !c.wroteHeader {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wroteHeader = true
	}
}

func (c *captureResponseWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if we, ok := err.(mongo.WriteException); ok {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

// Idempotent deduplicates a mutating endpoint when the client supplies an
// Idempotency-Key header. Without the header the handler runs as-is.
// A replayed key with the same request returns the first response; the same
// key with a different body is a conflict.
func Idempotent(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next(w, r, ps)
			return
		}

		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		reqHash := computeRequestHash(r, bodyBytes)
		now := time.Now()
		rec := models.IdempotencyRecord{
			Key:         key,
			Method:      r.Method,
			Path:        r.URL.Path,
			RequestHash: reqHash,
			CreatedAt:   now,
			ExpiresAt:   now.Add(24 * time.Hour),
		}

		ctx := r.Context()
		_, err = db.IdempotencyCollection.InsertOne(ctx, rec)
		if err == nil {
			// First time: run the handler and store its response for replays.
			crw := newCaptureResponseWriter(w)
			next(crw, r, ps)

			// A server failure must stay retryable, so the key is released
			// rather than pinned to the failed response.
			if !shouldStoreResponse(crw.statusCode) {
				_, _ = db.IdempotencyCollection.DeleteOne(ctx, bson.M{"key": key})
				return
			}

			var parsed interface{}
			if err := json.Unmarshal(crw.buf.Bytes(), &parsed); err != nil {
				parsed = crw.buf.String()
			}

			_, _ = db.IdempotencyCollection.UpdateOne(ctx,
				bson.M{"key": key},
				bson.M{"$set": bson.M{"response": map[string]any{
					"status": crw.statusCode,
					"body":   parsed,
				}}},
			)
			return
		}

		if !isDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusInternalServerError, "Idempotency lookup error")
			return
		}

		var existing models.IdempotencyRecord
		if err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": key}).Decode(&existing); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Idempotency lookup error")
			return
		}

		if respondFromRecord(w, existing, reqHash) {
			return
		}

		// In-flight original request; let the handler run.
		next(w, r, ps)
	}
}

// shouldStoreResponse reports whether a first response is worth pinning to
// the key. Server failures are not: the client retries with the same key and
// the booking gets re-attempted.
func shouldStoreResponse(status int) bool {
	return status < http.StatusInternalServerError
}

// respondFromRecord writes the outcome for a replayed key: a conflict when
// the request differs, the stored response when one exists. It reports false
// when the original request is still in flight.
func respondFromRecord(w http.ResponseWriter, existing models.IdempotencyRecord, reqHash string) bool {
	if existing.RequestHash != reqHash {
		utils.RespondWithError(w, http.StatusConflict, "Idempotency-key conflict")
		return true
	}

	if existing.Response != nil {
		statusFloat, _ := existing.Response["status"].(float64)
		status := int(statusFloat)
		if status == 0 {
			if s, ok := existing.Response["status"].(int32); ok {
				status = int(s)
			}
		}
		if status == 0 {
			status = http.StatusOK
		}
		utils.RespondWithJSON(w, status, existing.Response["body"])
		return true
	}

	return false
}
