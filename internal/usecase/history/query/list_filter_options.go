package query

import (
	"context"
	"sort"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// ListFilterOptionsOutput は検索条件の候補値です
type ListFilterOptionsOutput struct {
	OperationTypes []string
	Countries      []string
	SourceTypes    []string
}

// ListFilterOptionsQuery は履歴検索画面の選択肢を返すクエリです
type ListFilterOptionsQuery struct {
	historyRepo repository.OperationHistoryRepository
}

// NewListFilterOptionsQuery は新しいListFilterOptionsQueryを作成します
func NewListFilterOptionsQuery(historyRepo repository.OperationHistoryRepository) *ListFilterOptionsQuery {
	return &ListFilterOptionsQuery{historyRepo: historyRepo}
}

// Execute は既知の操作種別と記録済みの値を合わせて返します
func (q *ListFilterOptionsQuery) Execute(ctx context.Context) (*ListFilterOptionsOutput, error) {
	recorded, err := q.historyRepo.DistinctOperationTypes(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	countries, err := q.historyRepo.DistinctCountries(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}

	seen := make(map[string]struct{})
	var types []string
	add := func(v string) {
		if _, ok := seen[v]; ok || v == "" {
			return
		}
		seen[v] = struct{}{}
		types = append(types, v)
	}
	for _, t := range valueobject.KnownOperationTypes() {
		add(t.String())
	}
	for _, t := range recorded {
		add(t)
	}
	sort.Strings(types)

	if countries == nil {
		countries = []string{}
	}

	return &ListFilterOptionsOutput{
		OperationTypes: types,
		Countries:      countries,
		SourceTypes:    []string{string(valueobject.SourceAPI), string(valueobject.SourceFrontend)},
	}, nil
}
