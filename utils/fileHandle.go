package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an uploaded file under destDir with a
// unique name and returns the stored path.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// SaveReceipt stores a transfer receipt for a purchase under the
// receipts folder of the uploads dir and returns the stored path
// relative to it, suitable for GetFileURL.
func SaveReceipt(file *multipart.FileHeader, uploadDir string, purchaseID uint) (string, error) {
	subDir := filepath.Join("receipts", fmt.Sprintf("purchase_%d", purchaseID))
	stored, err := SaveUploadedFile(file, filepath.Join(uploadDir, subDir))
	if err != nil {
		return "", err
	}
	return filepath.Join(subDir, filepath.Base(stored)), nil
}

// GetFileURL maps a stored path to the public URL it is served from.
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return "/uploads/" + filepath.ToSlash(filePath)
}
