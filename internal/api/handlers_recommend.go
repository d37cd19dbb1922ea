// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Recommendations handles GET /api/v1/recommendations?title=...&k=...
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, ok := intParamOrReject(rw, r, "k", h.recommender.DefaultK())
	if !ok {
		return
	}
	req := RecommendationRequest{
		Title: r.URL.Query().Get("title"),
		K:     k,
	}
	if !validateRequest(rw, &req) {
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), req.Title, req.K)
	if err != nil {
		rw.RecommendError(err)
		return
	}
	rw.SuccessList(recs, len(recs))
}

// RecommendationsByISBN handles GET /api/v1/recommendations/isbn/{isbn}?k=...
func (h *Handler) RecommendationsByISBN(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, ok := intParamOrReject(rw, r, "k", h.recommender.DefaultK())
	if !ok {
		return
	}
	req := ISBNRecommendationRequest{
		ISBN: chi.URLParam(r, "isbn"),
		K:    k,
	}
	if !validateRequest(rw, &req) {
		return
	}

	recs, err := h.recommender.RecommendByISBN(r.Context(), req.ISBN, req.K)
	if err != nil {
		rw.RecommendError(err)
		return
	}
	rw.SuccessList(recs, len(recs))
}

// Books handles GET /api/v1/books?prefix=...&limit=...
// It lists indexed titles so clients can discover valid query keys.
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := intParamOrReject(rw, r, "limit", DefaultBooksLimit)
	if !ok {
		return
	}
	req := BooksRequest{
		Prefix: r.URL.Query().Get("prefix"),
		Limit:  limit,
	}
	if !validateRequest(rw, &req) {
		return
	}

	titles, err := h.recommender.Titles(req.Prefix, req.Limit)
	if err != nil {
		rw.RecommendError(err)
		return
	}
	rw.SuccessList(titles, len(titles))
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.recommender.Status())
}
