package di

import (
	pdfcmd "github.com/Hiro-mackay/pdfops/internal/usecase/pdf/command"
)

// PDFUseCases はPDF操作のUseCaseを保持します
// 全てのコマンドは Container.Tracker に記録します
type PDFUseCases struct {
	Merge          *pdfcmd.MergePDFCommand
	Extract        *pdfcmd.ExtractPagesCommand
	Split          *pdfcmd.SplitPDFCommand
	RemovePage     *pdfcmd.RemovePageCommand
	Reorder        *pdfcmd.ReorderPagesCommand
	AddPassword    *pdfcmd.AddPasswordCommand
	RemovePassword *pdfcmd.RemovePasswordCommand
	ToImages       *pdfcmd.ToImagesCommand
	Rotate         *pdfcmd.RotatePagesCommand
	AddWatermark   *pdfcmd.AddWatermarkCommand
}

// NewPDFUseCases は新しいPDFUseCasesを作成します
func NewPDFUseCases(c *Container) *PDFUseCases {
	p, t := c.PDFProcessor, c.Tracker
	return &PDFUseCases{
		Merge:          pdfcmd.NewMergePDFCommand(p, t),
		Extract:        pdfcmd.NewExtractPagesCommand(p, t),
		Split:          pdfcmd.NewSplitPDFCommand(p, t),
		RemovePage:     pdfcmd.NewRemovePageCommand(p, t),
		Reorder:        pdfcmd.NewReorderPagesCommand(p, t),
		AddPassword:    pdfcmd.NewAddPasswordCommand(p, t),
		RemovePassword: pdfcmd.NewRemovePasswordCommand(p, t),
		ToImages:       pdfcmd.NewToImagesCommand(p, t),
		Rotate:         pdfcmd.NewRotatePagesCommand(p, t),
		AddWatermark:   pdfcmd.NewAddWatermarkCommand(p, t),
	}
}
