package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
	"github.com/boofino/boofino/pkg/storage"
)

// maxUploadBytes caps a single image upload at 5 MB.
const maxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Store accepts a multipart image in the "imgUrl" field, saves it under a
// random name on the configured storage disk, and returns the public URL.
func (c *UploadController) Store(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusRequestEntityTooLarge, lang.ValidationFailed)
		return
	}

	file, header, err := r.FormFile("imgUrl")
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, lang.FillAllFields)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		response.Error(w, http.StatusUnprocessableEntity, lang.ValidationFailed)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.WithCtx(r.Context()).Error("read upload", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}

	name, err := randomName()
	if err != nil {
		logger.WithCtx(r.Context()).Error("upload name", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	path := "images/" + name + ext

	if err := storage.Put(path, data); err != nil {
		logger.WithCtx(r.Context()).Error("store upload", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}

	response.Created(w, lang.UploadSaved, map[string]string{
		"url": storage.URL(path),
	})
}

func randomName() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
