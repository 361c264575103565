package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Допустимые типы документов верификации.
var allowedDocumentTypes = map[string]string{
	matchers.TypeJpeg.MIME.Value: ".jpg",
	matchers.TypePng.MIME.Value:  ".png",
	matchers.TypePdf.MIME.Value:  ".pdf",
}

// DocumentStorage отвечает за файловое хранилище документов верификации.
// Тип файла определяется по содержимому, расширение из имени не
// учитывается.
type DocumentStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewDocumentStorage создаёт файловое хранилище.
func NewDocumentStorage(rootPath string, maxUploadMB int64) (*DocumentStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &DocumentStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save проверяет содержимое файла, сохраняет его и возвращает
// относительный путь и определённый MIME тип.
func (s *DocumentStorage) Save(userID uuid.UUID, originalName string, data []byte) (string, string, error) {
	if int64(len(data)) > s.maxUploadBytes {
		return "", "", fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return "", "", fmt.Errorf("storage: не удалось определить тип файла: %w", err)
	}

	ext, ok := allowedDocumentTypes[kind.MIME.Value]
	if !ok {
		return "", "", fmt.Errorf("storage: допустимы только JPEG, PNG и PDF")
	}

	stem := strings.TrimSuffix(sanitizeFilename(originalName), filepath.Ext(originalName))
	fileName := fmt.Sprintf("%s_%d_%s%s", userID.String(), time.Now().UnixNano(), stem, ext)

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", "", fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	relative := filepath.Join(userID.String(), fileName)
	return relative, kind.MIME.Value, nil
}

// Delete удаляет файл из хранилища.
func (s *DocumentStorage) Delete(relativePath string) error {
	target := filepath.Join(s.rootPath, relativePath)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "document"
	}
	return name
}
