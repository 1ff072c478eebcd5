package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name           string
		result         Result
		expectStatus   int
		expectBody     string
		expectInternal string
		expectHeader   [2]string
	}{
		{
			name:           "ok with object",
			result:         OK(map[string]int{"count": 2}, "listed %d things", 2),
			expectStatus:   http.StatusOK,
			expectBody:     `{"count":2}`,
			expectInternal: "listed 2 things",
			expectHeader:   [2]string{"Content-Type", "application/json"},
		},
		{
			name:           "no content has no body",
			result:         NoContent(),
			expectStatus:   http.StatusNoContent,
			expectBody:     "",
			expectInternal: "no content",
		},
		{
			name:           "not found hides internal message",
			result:         NotFound("account %s", "abc"),
			expectStatus:   http.StatusNotFound,
			expectBody:     `{"error":"The requested resource was not found","status":404}`,
			expectInternal: "account abc",
		},
		{
			name:           "unauthorized sets challenge",
			result:         Unauthorized(""),
			expectStatus:   http.StatusUnauthorized,
			expectBody:     `{"error":"You are not authorized to do that","status":401}`,
			expectInternal: "unauthorized",
			expectHeader:   [2]string{"WWW-Authenticate", `Bearer realm="tunacmd server", charset="utf-8"`},
		},
		{
			name:           "text error",
			result:         TextErr(http.StatusInternalServerError, "oops", "panic: %s", "bad"),
			expectStatus:   http.StatusInternalServerError,
			expectBody:     "oops",
			expectInternal: "panic: bad",
			expectHeader:   [2]string{"Content-Type", "text/plain; charset=utf-8"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			rec := httptest.NewRecorder()
			tc.result.WriteResponse(rec)

			assert.Equal(tc.expectStatus, rec.Code)
			assert.Equal(tc.expectBody, rec.Body.String())
			assert.Equal(tc.expectInternal, tc.result.InternalMsg)
			if tc.expectHeader[0] != "" {
				assert.Equal(tc.expectHeader[1], rec.Header().Get(tc.expectHeader[0]))
			}
		})
	}
}

func Test_Result_WriteResponse_unpopulatedPanics(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() {
		Result{}.WriteResponse(httptest.NewRecorder())
	})
}
