// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/linkbridge/internal/platform/ctxutil"
	"github.com/taibuivan/linkbridge/internal/platform/sec"
	"github.com/taibuivan/linkbridge/internal/users/account"
)

// serveAs routes a request through the account handler with an authenticated
// session for the given user ID.
func serveAs(t *testing.T, handler *account.Handler, userID string, request *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	claims := &sec.AuthClaims{UserID: userID}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_UpdateProfile_BioBounds(t *testing.T) {
	tests := []struct {
		name       string
		bio        string
		wantStatus int
	}{
		{"missing_bio", "", http.StatusBadRequest},
		{"oversized_bio", strings.Repeat("b", 201), http.StatusBadRequest},
		{"max_length_bio", strings.Repeat("b", 200), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, deps := newTestService()
			seedUser(deps)
			handler := account.NewHandler(service)

			body, err := json.Marshal(map[string]string{"name": "Jane Doe", "bio": tt.bio})
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPatch, "/user-1?updateType=profile", bytes.NewReader(body))
			request.Header.Set("Content-Type", "application/json")

			recorder := serveAs(t, handler, "user-1", request)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
