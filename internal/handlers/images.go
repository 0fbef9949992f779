package handlers

import (
	"net/http"

	"inkpress/internal/service"
)

// ListImages returns a post's ordered image set.
func (h *Posts) ListImages(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.posts.Images(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.imageViews(images))
}

// AddImages appends uploaded files to a post's image set.
func (h *Posts) AddImages(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, r, service.BadRequest("invalid multipart form: %v", err))
		return
	}
	uploads, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.posts.AddImages(r.Context(), id, uploads)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.invalidate(r, id)
	respondJSON(w, http.StatusCreated, h.imageViews(images))
}

// RemoveImage deletes one image and closes the display-order gap.
func (h *Posts) RemoveImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	imageID, err := pathUUID(r, "imageId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.posts.RemoveImage(r.Context(), id, imageID); err != nil {
		respondError(w, r, err)
		return
	}
	h.invalidate(r, id)
	respondJSON(w, http.StatusNoContent, nil)
}
