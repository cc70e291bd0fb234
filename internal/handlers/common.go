package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing
const maxUploadMemory = 32 << 20

// response is the common envelope for every endpoint
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// respondData sends a success envelope carrying data
func respondData(w http.ResponseWriter, statusCode int, data any) {
	respondJSON(w, statusCode, response{Success: true, Data: data})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, response{Success: false, Message: message})
}

// respondServiceError maps a service error to an HTTP response
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(w, "Invalid status", http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(w, "User already exists", http.StatusConflict)
	case errors.Is(err, services.ErrDuplicateRequest):
		respondError(w, "You already have an active request for this animal", http.StatusConflict)
	case errors.Is(err, services.ErrConflict):
		respondError(w, "Conflict with current state", http.StatusConflict)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, "Server error", http.StatusInternalServerError)
	}
}

// formValue returns a pointer to the form value, or nil when the field
// was not submitted at all. Lets multipart updates stay partial.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// saveUpload stores the file in the named form field, returning its URL.
// An absent field yields "" with no error.
func saveUpload(r *http.Request, store storage.Store, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	return store.Save(r.Context(), dir, header.Filename, header.Header.Get("Content-Type"), file)
}

// saveUploads stores every file in the named form field
func saveUploads(r *http.Request, store storage.Store, field, dir string) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var urls []string
	for _, header := range r.MultipartForm.File[field] {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		url, err := store.Save(r.Context(), dir, header.Filename, header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
