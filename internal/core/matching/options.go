package matching

import "mixwise-api/internal/pkg/common"

const (
	// DefaultMaxMissing almost-there 分級允許的最大缺少數
	DefaultMaxMissing = 2
	// DefaultLimit 建議清單預設長度
	DefaultLimit = 10
)

// Options 分類與建議共用的設定
type Options struct {
	MaxMissing int `json:"max_missing"`
	Limit      int `json:"limit"`
}

// DefaultOptions 預設設定
func DefaultOptions() Options {
	return Options{
		MaxMissing: DefaultMaxMissing,
		Limit:      DefaultLimit,
	}
}

// Validate 驗證設定
func (o Options) Validate() error {
	if err := validateMaxMissing(o.MaxMissing); err != nil {
		return err
	}
	return validateLimit(o.Limit)
}

func validateMaxMissing(maxMissing int) error {
	if maxMissing < 0 {
		return common.NewValidationErrorf("max missing must be non-negative, got %d", maxMissing)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < 0 {
		return common.NewValidationErrorf("limit must be non-negative, got %d", limit)
	}
	return nil
}
