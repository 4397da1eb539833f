// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/collectify/core/logger"
)

// defaultUploadSizeBytes caps uploaded images at 5 MiB
const defaultUploadSizeBytes = 5 * 1024 * 1024

// uploadFieldName is the fixed multipart form field carrying the file
const uploadFieldName = "image"

const fileTooLargeMessage = "Dosya boyutu çok büyük. Maksimum 5MB yükleyebilirsiniz."

func (b *Backend) createUploadResource(router *mux.Router, rc uploadConfiguration) {
	maxSize := rc.MaxSizeBytes

	nillog := logger.Default()
	nillog.Debugln("create upload:", rc.Resource)
	if rc.Description != "" {
		nillog.Debugln("  description:", rc.Description)
	}

	route := "/api/" + rc.Resource
	nillog.Debugln("  handle upload route:", route, "POST")

	upload := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())

		// the slack covers multipart framing and headers around the file
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			var maxBytesError *http.MaxBytesError
			if errors.As(err, &maxBytesError) {
				writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
					"message": fileTooLargeMessage,
					"code":    "FILE_TOO_LARGE",
				})
				return
			}
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
		if err != nil {
			rlog.WithError(err).Errorf("Error 4031: cannot read upload %s", header.Filename)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		if !strings.HasPrefix(mimeType, "image/") {
			writeError(w, http.StatusBadRequest, "Only image files are allowed!")
			return
		}

		if int64(len(data)) > maxSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"message": fileTooLargeMessage,
				"code":    "FILE_TOO_LARGE",
			})
			return
		}

		// the image is never written to disk, it goes back to the caller
		// as a data URL and travels inline in the entity document
		imageData := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"imageData":    imageData,
			"mimeType":     mimeType,
			"originalName": header.Filename,
			"size":         len(data),
		})
	}

	router.Handle(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		upload(w, r)
	})).Methods(http.MethodOptions, http.MethodPost)
}
