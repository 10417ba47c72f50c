package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// PasswordInput はパスワード設定・解除の入力を定義します
type PasswordInput struct {
	PDF        Document
	Password   string
	OutputName string
	Origin     entity.RequestOrigin
}

// AddPasswordCommand はPDFをパスワードで保護するコマンドです
type AddPasswordCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewAddPasswordCommand は新しいAddPasswordCommandを作成します
func NewAddPasswordCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *AddPasswordCommand {
	return &AddPasswordCommand{processor: processor, tracker: tracker}
}

// Execute はパスワードを設定します
func (c *AddPasswordCommand) Execute(ctx context.Context, input PasswordInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperror.NewFieldValidationError("password", "password cannot be empty")
	}

	out, err := c.processor.Encrypt(ctx, input.PDF.Data, input.Password)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "protected.pdf")
	track(ctx, c.tracker, valueobject.OperationAddPassword,
		fmt.Sprintf("Added password protection to %s, output: %s", input.PDF.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}

// RemovePasswordCommand はPDFのパスワード保護を解除するコマンドです
type RemovePasswordCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewRemovePasswordCommand は新しいRemovePasswordCommandを作成します
func NewRemovePasswordCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *RemovePasswordCommand {
	return &RemovePasswordCommand{processor: processor, tracker: tracker}
}

// Execute はパスワードを解除します
// パスワードが一致しない場合はバリデーションエラーです
func (c *RemovePasswordCommand) Execute(ctx context.Context, input PasswordInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperror.NewFieldValidationError("password", "password cannot be empty")
	}

	out, err := c.processor.Decrypt(ctx, input.PDF.Data, input.Password)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "unprotected.pdf")
	track(ctx, c.tracker, valueobject.OperationRemovePassword,
		fmt.Sprintf("Removed password protection from %s, output: %s", input.PDF.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
