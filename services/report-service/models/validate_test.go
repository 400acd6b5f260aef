package models_test

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"cyber-incident-desk/services/report-service/models"

	"github.com/m-mizutani/gt"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestValidateUploadAccepts(t *testing.T) {
	gt.NoError(t, models.ValidateUpload(fileHeader("shot.png", "image/png", 512)))
	gt.NoError(t, models.ValidateUpload(fileHeader("scan.pdf", "application/pdf", models.MaxFileSize)))
	gt.NoError(t, models.ValidateUpload(fileHeader("photo.jpg", "image/jpeg", 9*1024*1024)))
	gt.NoError(t, models.ValidateUpload(fileHeader("pic.webp", "image/webp", 1)))
}

func TestValidateUploadRejectsOversize(t *testing.T) {
	err := models.ValidateUpload(fileHeader("big.png", "image/png", 11*1024*1024))
	gt.Error(t, err)
}

func TestValidateUploadRejectsDisallowedType(t *testing.T) {
	gt.Error(t, models.ValidateUpload(fileHeader("payload.exe", "application/x-msdownload", 1024)))
	gt.Error(t, models.ValidateUpload(fileHeader("notes.txt", "text/plain", 10)))
	gt.Error(t, models.ValidateUpload(fileHeader("archive.zip", "application/zip", 10)))
}

func TestUploadContentTypeFallsBackToExtension(t *testing.T) {
	gt.Equal(t, models.UploadContentType(fileHeader("shot.png", "", 1)), "image/png")
	gt.Equal(t, models.UploadContentType(fileHeader("scan.pdf", "", 1)), "application/pdf")
	// Unknown extension with no header resolves to nothing and fails the allow-list.
	gt.Error(t, models.ValidateUpload(fileHeader("payload.exe", "", 1)))
}

func TestUploadContentTypeStripsParameters(t *testing.T) {
	gt.Equal(t, models.UploadContentType(fileHeader("a.png", "image/png; charset=binary", 1)), "image/png")
}

func TestCapFiles(t *testing.T) {
	var files []*multipart.FileHeader
	for i := 0; i < 7; i++ {
		files = append(files, fileHeader("f.png", "image/png", 1))
	}

	capped := models.CapFiles(files)
	gt.Equal(t, len(capped), models.MaxFiles)

	exact := files[:5]
	gt.Equal(t, len(models.CapFiles(exact)), 5)

	few := files[:2]
	gt.Equal(t, len(models.CapFiles(few)), 2)
}
