package cocktail

import (
	"context"
	"errors"

	"mixwise-api/internal/core/cabinet"
	"mixwise-api/internal/core/catalog"
	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/pkg/common"

	"go.uber.org/zap"
)

// resolve 目錄尚未載入時仍可將名稱轉為 slug 形式的識別碼
func (s *Service) resolve(raw []string) []matching.IngredientID {
	if c, err := s.catalog.Current(); err == nil {
		return c.ResolveOwned(raw)
	}
	return catalog.NewResolver(nil, nil, nil).ResolveAll(raw)
}

// storeError 將儲存錯誤轉為 API 錯誤
func storeError(id string, err error) error {
	if errors.Is(err, cabinet.ErrNotFound) {
		return common.ErrCabinetNotFound.Wrap(err)
	}
	common.LogError("酒櫃儲存錯誤", zap.String("cabinet_id", id), zap.Error(err))
	return common.ErrCabinetStore.Wrap(err)
}

// CreateCabinet 建立新酒櫃
func (s *Service) CreateCabinet(ctx context.Context, ingredients []string) (*cabinet.Cabinet, error) {
	id := s.newID()
	c, err := s.cabinets.Replace(ctx, id, s.resolve(ingredients))
	if err != nil {
		return nil, storeError(id, err)
	}
	common.LogInfo("已建立酒櫃", zap.String("cabinet_id", id), zap.Int("ingredients", len(c.Ingredients)))
	return c, nil
}

// GetCabinet 取得酒櫃
func (s *Service) GetCabinet(ctx context.Context, id string) (*cabinet.Cabinet, error) {
	c, err := s.cabinets.Get(ctx, id)
	if err != nil {
		return nil, storeError(id, err)
	}
	return c, nil
}

// ReplaceCabinet 覆寫既有酒櫃的內容
func (s *Service) ReplaceCabinet(ctx context.Context, id string, ingredients []string) (*cabinet.Cabinet, error) {
	if _, err := s.GetCabinet(ctx, id); err != nil {
		return nil, err
	}
	c, err := s.cabinets.Replace(ctx, id, s.resolve(ingredients))
	if err != nil {
		return nil, storeError(id, err)
	}
	return c, nil
}

// AddIngredients 加入食材
func (s *Service) AddIngredients(ctx context.Context, id string, ingredients []string) (*cabinet.Cabinet, error) {
	c, err := s.cabinets.Add(ctx, id, s.resolve(ingredients)...)
	if err != nil {
		return nil, storeError(id, err)
	}
	return c, nil
}

// RemoveIngredients 移除食材
func (s *Service) RemoveIngredients(ctx context.Context, id string, ingredients []string) (*cabinet.Cabinet, error) {
	c, err := s.cabinets.Remove(ctx, id, s.resolve(ingredients)...)
	if err != nil {
		return nil, storeError(id, err)
	}
	return c, nil
}

// DeleteCabinet 刪除酒櫃
func (s *Service) DeleteCabinet(ctx context.Context, id string) error {
	if err := s.cabinets.Delete(ctx, id); err != nil {
		return storeError(id, err)
	}
	return nil
}
