package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumedoctor/internal/errors"
	"resumedoctor/internal/types"
	"resumedoctor/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadDocument reads a resume file from disk into a RawDocument. A maxSize
// of zero disables the size check.
func (fp *FileProcessor) ReadDocument(filename string, maxSize int64) (types.RawDocument, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return types.RawDocument{}, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	if !utils.IsPDFFile(filename) {
		if fp.logger != nil {
			fp.logger.Warn("File does not have a .pdf extension", "filename", filename)
		}
	}

	info, err := os.Stat(filename)
	if err != nil {
		return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot stat file: %s", filename), err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return types.RawDocument{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("File %s exceeds the %s size limit (%s)",
				filename, utils.FormatFileSize(maxSize), utils.FormatFileSize(info.Size())), nil)
	}

	data, err := fp.readFile(filename)
	if err != nil {
		return types.RawDocument{}, err
	}

	return types.RawDocument{
		Data:      data,
		MediaType: "application/pdf",
		Filename:  filepath.Base(filename),
	}, nil
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	data, err := fp.readFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (fp *FileProcessor) readFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			// Log the error but don't override the main operation result
			if fp.logger != nil {
				fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
			}
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
