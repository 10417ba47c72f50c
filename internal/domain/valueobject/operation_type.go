package valueobject

// OperationType は履歴に記録されるPDF操作の種別です
type OperationType string

const (
	OperationMergePDF       OperationType = "MERGE_PDF"
	OperationExtractPages   OperationType = "EXTRACT_PAGES"
	OperationSplitPDF       OperationType = "SPLIT_PDF"
	OperationRemovePage     OperationType = "REMOVE_PAGE"
	OperationReorderPages   OperationType = "REORDER_PAGES"
	OperationAddPassword    OperationType = "ADD_PASSWORD"
	OperationRemovePassword OperationType = "REMOVE_PASSWORD"
	OperationPDFToImages    OperationType = "PDF_TO_IMAGES"
	OperationRotatePages    OperationType = "ROTATE_PAGES"
	OperationAddWatermark   OperationType = "ADD_WATERMARK"
)

// KnownOperationTypes はサービスが記録する操作種別の一覧を返します
func KnownOperationTypes() []OperationType {
	return []OperationType{
		OperationMergePDF,
		OperationExtractPages,
		OperationSplitPDF,
		OperationRemovePage,
		OperationReorderPages,
		OperationAddPassword,
		OperationRemovePassword,
		OperationPDFToImages,
		OperationRotatePages,
		OperationAddWatermark,
	}
}

// IsKnown は既知の操作種別かを判定します
func (t OperationType) IsKnown() bool {
	for _, known := range KnownOperationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String は文字列を返します
func (t OperationType) String() string {
	return string(t)
}

// SourceType は操作の呼び出し元を表します
type SourceType string

const (
	SourceAPI      SourceType = "API"
	SourceFrontend SourceType = "Frontend"
)

// ParseSourceType はヘッダー値から呼び出し元を判定します
// 空の場合は API として扱います
func ParseSourceType(v string) SourceType {
	if v == "" {
		return SourceAPI
	}
	return SourceType(v)
}
