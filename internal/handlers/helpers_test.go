package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Success    bool            `json:"success"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.StatusCode, "envelope status must match HTTP status")
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
	return env
}

type postJSON struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Tag           bool   `json:"tag"`
	CreatedBy     uint   `json:"createdBy"`
	UpvoteCount   *int64 `json:"upvoteCount"`
	DownvoteCount *int64 `json:"downvoteCount"`
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
