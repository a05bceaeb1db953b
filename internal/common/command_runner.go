package common

import (
	"context"

	"resumedoctor/internal/errors"
	"resumedoctor/internal/types"
)

// DocumentOperationFunc is a generic signature for any operation that turns
// an uploaded resume document into a formatted result.
type DocumentOperationFunc[Output any] func(context.Context, types.RawDocument) (Output, error)

// RunDocumentCommand encapsulates the common logic for file-based CLI
// commands: read and validate the document, run the operation, write the
// formatted result to the configured output.
func RunDocumentCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	filename string,
	maxFileSize int64,
	operation DocumentOperationFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	doc, err := fileProcessor.ReadDocument(filename, maxFileSize)
	if err != nil {
		return err
	}

	result, err := operation(ctx, doc)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
