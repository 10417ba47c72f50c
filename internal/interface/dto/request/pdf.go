package request

// PDFのアップロードはmultipartで受け取り、ファイルはハンドラーで取り出します

// MergePDFRequest はPDF結合のフォーム値
type MergePDFRequest struct {
	OutputName string `form:"outputName" validate:"omitempty,filename"`
}

// ExtractPagesRequest はページ抽出のフォーム値
type ExtractPagesRequest struct {
	StartPage  int    `form:"startPage"`
	EndPage    int    `form:"endPage"`
	OutputName string `form:"outputName" validate:"omitempty,filename"`
}

// SplitPDFRequest はPDF分割のフォーム値
type SplitPDFRequest struct {
	SplitAtPage      int    `form:"splitAtPage"`
	FirstOutputName  string `form:"firstOutputName" validate:"omitempty,filename"`
	SecondOutputName string `form:"secondOutputName" validate:"omitempty,filename"`
}

// RemovePageRequest はページ削除のフォーム値
type RemovePageRequest struct {
	PageToRemove int    `form:"pageToRemove"`
	OutputName   string `form:"outputName" validate:"omitempty,filename"`
}

// ReorderPagesRequest はページ並べ替えのフォーム値
// pageOrder は繰り返し指定またはカンマ区切りで受け付けます
type ReorderPagesRequest struct {
	PageOrder  []string `form:"pageOrder" validate:"required,min=1"`
	OutputName string   `form:"outputName" validate:"omitempty,filename"`
}

// PasswordRequest はパスワード設定・解除のフォーム値
type PasswordRequest struct {
	Password   string `form:"password" validate:"required"`
	OutputName string `form:"outputName" validate:"omitempty,filename"`
}

// ToImagesRequest は画像変換のフォーム値
type ToImagesRequest struct {
	DPI int `form:"dpi"`
}

// RotatePagesRequest はページ回転のフォーム値
type RotatePagesRequest struct {
	Pages      []string `form:"pages" validate:"required,min=1"`
	Rotations  []string `form:"rotations" validate:"required,min=1"`
	OutputName string   `form:"outputName" validate:"omitempty,filename"`
}

// AddWatermarkRequest は透かし追加のフォーム値
// 数値は未指定を区別するため文字列で受け取り、ハンドラーで既定値を補います
type AddWatermarkRequest struct {
	WatermarkText string `form:"watermarkText" validate:"required"`
	Opacity       string `form:"opacity"`
	FontSize      string `form:"fontSize"`
	Color         string `form:"color" validate:"omitempty,hexcolor"`
	Rotation      string `form:"rotation"`
	OutputName    string `form:"outputName" validate:"omitempty,filename"`
}
