// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for link collections.
//
// # Architecture
//
// Every authenticated endpoint resolves the owner from the session subject;
// the one public endpoint (click tracking) takes the owner from the request
// body instead. The target collection rides in the docType query parameter
// and is validated here, so the service only ever sees the two known
// collection names.
package links

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/linkbridge/internal/platform/assets"
	"github.com/taibuivan/linkbridge/internal/platform/middleware"
	requestutil "github.com/taibuivan/linkbridge/internal/platform/request"
	"github.com/taibuivan/linkbridge/internal/platform/respond"
	"github.com/taibuivan/linkbridge/internal/platform/validate"
)

// Multipart field name for custom-link icons.
const fileFieldIcon = "icon"

// # Definitions & Constructors

// Handler implements the link HTTP endpoints.
type Handler struct {
	linkService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{linkService: service}
}

// RegisterRoutes attaches the link endpoints onto the /links router.
//
// # Endpoints
//   - POST   /               : Adds an entry (?docType=), optional icon file.
//   - GET    /               : Returns the caller's document.
//   - GET    /stats          : Flat click statistics for the caller.
//   - PATCH  /{docId}        : Edits an entry (?docType=), optional icon file.
//   - DELETE /{docId}        : Removes an entry (?docType=).
//   - PATCH  /click/{docId}  : Public click tracking, owner in the body.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Patch("/click/{docId}", handler.countClick)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.addLink)
		protected.Get("/", handler.getLinks)
		protected.Get("/stats", handler.getStats)
		protected.Patch("/{docId}", handler.updateLink)
		protected.Delete("/{docId}", handler.deleteLink)
	})
}

// # Request Payloads

type linkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type clickRequest struct {
	Creator  string `json:"creator"`
	LinkType string `json:"linkType"`
}

// # Endpoints

/*
AddLink appends a new entry to one of the caller's collections.

POST /links?docType={socialLinks|customLinks}

The body is multipart form data when an icon is attached (title/url as form
fields), plain JSON otherwise. Icons only apply to custom links.

Response:
  - 201: Document: The updated link document
  - 400: ErrBadRequest: Missing/invalid fields or unknown docType
  - 401: ErrUnauthorized: Session missing
*/
func (handler *Handler) addLink(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	collection, input, err := handler.decodeEntry(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, err := handler.linkService.AddLink(request.Context(), userID, collection, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Link added successfully", document)
}

/*
GetLinks returns the caller's full link document.

GET /links

Response:
  - 200: Document
  - 404: ErrNotFound: No document yet
*/
func (handler *Handler) getLinks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, err := handler.linkService.GetLinks(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Links fetched successfully", document)
}

/*
GetStats returns the caller's flat click statistics.

GET /links/stats

Response:
  - 200: []StatsEntry: Social entries first, then custom
  - 404: ErrNotFound: No document yet
*/
func (handler *Handler) getStats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.linkService.GetStats(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Link stats fetched successfully", entries)
}

/*
UpdateLink edits an entry addressed by its stable ID.

PATCH /links/{docId}?docType={socialLinks|customLinks}

Click data is never touched by this endpoint.

Response:
  - 200: Document: The updated link document
  - 400: ErrBadRequest: Unknown entry, document, or docType
  - 401: ErrUnauthorized: Session missing
*/
func (handler *Handler) updateLink(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entryID := requestutil.Param(request, "docId")
	collection, input, err := handler.decodeEntry(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, err := handler.linkService.UpdateLink(request.Context(), userID, entryID, collection, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Link updated successfully", document)
}

/*
DeleteLink removes an entry addressed by its stable ID.

DELETE /links/{docId}?docType={socialLinks|customLinks}

Response:
  - 200: Document: The document after the removal
  - 400: ErrBadRequest: Unknown entry, document, or docType
  - 401: ErrUnauthorized: Session missing
*/
func (handler *Handler) deleteLink(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entryID := requestutil.Param(request, "docId")
	collection, err := handler.collectionParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, err := handler.linkService.DeleteLink(request.Context(), userID, entryID, collection)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Link deleted successfully", document)
}

/*
CountClick records one click on a public page's link.

PATCH /links/click/{docId}

No session: visitors are anonymous. The document owner arrives in the body's
creator field together with the short link kind.

Response:
  - 200: Click recorded
  - 400: ErrBadRequest: Missing creator or invalid linkType
  - 404: ErrNotFound: Unknown owner or entry
*/
func (handler *Handler) countClick(writer http.ResponseWriter, request *http.Request) {
	var body clickRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("creator", body.Creator).
		Required("linkType", body.LinkType).
		OneOf("linkType", body.LinkType, ClickKindSocial, ClickKindCustom)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entryID := requestutil.Param(request, "docId")
	if err := handler.linkService.CountClick(request.Context(), body.Creator, entryID, body.LinkType); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Click recorded successfully", nil)
}

// # Helpers

// collectionParam validates the docType query parameter.
func (handler *Handler) collectionParam(request *http.Request) (string, error) {
	collection := requestutil.Query(request, "docType")

	validator := &validate.Validator{}
	validator.Required("docType", collection).
		OneOf("docType", collection, CollectionSocial, CollectionCustom)
	if err := validator.Err(); err != nil {
		return "", err
	}

	return collection, nil
}

// decodeEntry reads the collection plus the entry fields, handling both the
// multipart (icon-carrying) and plain JSON shapes.
func (handler *Handler) decodeEntry(request *http.Request) (string, EntryInput, error) {
	collection, err := handler.collectionParam(request)
	if err != nil {
		return "", EntryInput{}, err
	}

	input := EntryInput{}
	if strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		upload, err := requestutil.File(request, fileFieldIcon)
		if err != nil {
			return "", EntryInput{}, err
		}
		if upload != nil {
			input.Icon = &assets.File{
				Filename:    upload.Filename,
				ContentType: upload.ContentType,
				Data:        upload.Data,
			}
		}
		input.Title = requestutil.FormValue(request, "title")
		input.URL = requestutil.FormValue(request, "url")
	} else {
		var body linkRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			return "", EntryInput{}, validate.ErrInvalidJSON
		}
		input.Title = body.Title
		input.URL = body.URL
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		Required("url", input.URL).
		URL("url", input.URL)
	if err := validator.Err(); err != nil {
		return "", EntryInput{}, err
	}

	return collection, input, nil
}
