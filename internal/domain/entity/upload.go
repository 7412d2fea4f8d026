package entity

import (
	"path/filepath"
	"strings"
)

// ImageFormat заявленный формат загруженного файла.
type ImageFormat string

const (
	FormatUnknown ImageFormat = ""
	FormatJPEG    ImageFormat = "jpeg"
	FormatPNG     ImageFormat = "png"
)

// Upload изображение пользователя до декодирования.
type Upload struct {
	Data     []byte
	Filename string
	Format   ImageFormat
}

// NewUpload определяет формат по имени файла, иначе по MIME-типу.
func NewUpload(data []byte, filename, mimeType string) *Upload {
	return &Upload{
		Data:     data,
		Filename: filename,
		Format:   declaredFormat(filename, mimeType),
	}
}

// Empty сообщает, что ничего не загружено.
func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

func declaredFormat(filename, mimeType string) ImageFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	}

	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return FormatJPEG
	case "image/png":
		return FormatPNG
	}

	return FormatUnknown
}
