// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/linkbridge/internal/platform/apperr"
	"github.com/taibuivan/linkbridge/internal/platform/constants"
	"github.com/taibuivan/linkbridge/internal/platform/ctxutil"
	"github.com/taibuivan/linkbridge/internal/platform/sec"
	"github.com/taibuivan/linkbridge/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query retrieves a named query-string parameter from the request.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get user claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}

// # Multipart Uploads

/*
Upload holds the bytes and metadata of a single multipart file field.
*/
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

/*
File extracts a single optional file from a multipart form.

Parameters:
  - request: *http.Request (multipart/form-data)
  - field: string (form field name, e.g. "avatar" or "icon")

Returns:
  - *Upload: The uploaded file, or nil if the field is absent
  - error: apperr.ValidationError if the form is malformed or the file
    exceeds the upload size cap
*/
func File(request *http.Request, field string) (*Upload, error) {

	// Parse the multipart body, keeping memory use bounded
	if err := request.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return nil, apperr.ValidationError("Invalid multipart form")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, apperr.ValidationError("Invalid multipart form")
	}
	defer file.Close()

	// Read at most MaxUploadSize+1 bytes so oversized files are detected
	// without buffering them fully
	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize+1))
	if err != nil {
		return nil, apperr.ValidationError("Failed to read uploaded file")
	}
	if len(data) > constants.MaxUploadSize {
		return nil, apperr.ValidationError("Uploaded file is too large")
	}

	return &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

/*
FormValue retrieves a plain text field from a multipart or urlencoded form.
*/
func FormValue(request *http.Request, field string) string {
	return request.FormValue(field)
}
